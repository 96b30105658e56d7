package preflight

import (
	"fmt"
	"strings"

	"bdsample/internal/faults"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckTarget verifies that target can be created and written and that its
// filesystem has at least needed bytes free.
func CheckTarget(target string, needed int64) []Result {
	existing, err := nearestExisting(target)
	if err != nil {
		return []Result{{Name: "Target directory", Detail: fmt.Sprintf("%s (error: %v)", target, err)}}
	}

	results := []Result{CheckDirectoryAccess("Target directory", existing)}
	results = append(results, CheckFreeSpace("Free space", existing, needed))
	return results
}

// Err folds failed results into a single validation error, or nil when every
// check passed.
func Err(results []Result) error {
	var failed []string
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result.Name+": "+result.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return faults.Wrap(faults.ErrValidation, "preflight", "check target", strings.Join(failed, "; "), nil)
}
