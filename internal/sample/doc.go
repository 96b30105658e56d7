// Package sample plans and executes the bounded copy of a disc sample.
//
// Plan walks the category directories of a Descriptor and produces a Job:
// stream containers are capped to the sample size, every other category is
// copied in full. Copier executes a Job one file at a time in fixed-size
// chunks and stops at the first fault. Reset clears a previous extraction on
// a best-effort basis, and LockTarget keeps two extractions from writing into
// the same target.
package sample
