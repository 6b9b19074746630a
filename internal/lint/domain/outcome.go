package domain

// ValidationOutcome is the result of validating a single file.
// Diagnostic is set only when Passed is false.
type ValidationOutcome struct {
	Path       string
	Passed     bool
	Diagnostic string
}

// PassedOutcome returns a successful outcome for path.
func PassedOutcome(path string) ValidationOutcome {
	return ValidationOutcome{Path: path, Passed: true}
}

// FailedOutcome returns a failed outcome for path. An empty diagnostic is
// replaced with a generic one so that failures always carry text.
func FailedOutcome(path, diagnostic string) ValidationOutcome {
	if diagnostic == "" {
		diagnostic = "validation failed"
	}
	return ValidationOutcome{Path: path, Passed: false, Diagnostic: diagnostic}
}

// AggregatedResult collects the paths that failed validation in the order
// their outcomes were produced.
type AggregatedResult struct {
	FailedPaths []string
}

// Add folds an outcome into the result.
func (r *AggregatedResult) Add(o ValidationOutcome) {
	if !o.Passed {
		r.FailedPaths = append(r.FailedPaths, o.Path)
	}
}

// Passed reports whether no file failed.
func (r AggregatedResult) Passed() bool {
	return len(r.FailedPaths) == 0
}

// Aggregate folds outcomes in order.
func Aggregate(outcomes []ValidationOutcome) AggregatedResult {
	var r AggregatedResult
	for _, o := range outcomes {
		r.Add(o)
	}
	return r
}
