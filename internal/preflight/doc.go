// Package preflight provides readiness checks for the extraction target.
//
// The extract command runs CheckTarget after planning and before the first
// byte is written. The target itself may not exist yet, so checks resolve
// the nearest existing ancestor. Any failed check aborts the extraction.
package preflight
