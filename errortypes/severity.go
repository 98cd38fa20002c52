package errortypes

// Severity represents the severity level of a validation processing error.
type Severity int

const (
	// SeverityUnknown represents an unknown severity level.
	SeverityUnknown Severity = iota

	// SeverityFatal represents a fatal processing error which prevents a result from being produced.
	SeverityFatal

	// SeverityWarning represents a non-fatal processing error where invalid or ambiguous
	// input data was ignored.
	SeverityWarning
)

func isFatal(err error) bool {
	s, ok := err.(Coder)
	return !ok || s.Severity() == SeverityFatal
}

// IsWarning returns true if an error is labeled with a Severity of SeverityWarning.
func IsWarning(err error) bool {
	s, ok := err.(Coder)
	return ok && s.Severity() == SeverityWarning
}

// ContainsFatalError checks if the error list contains a fatal error.
func ContainsFatalError(errors []error) bool {
	for _, err := range errors {
		if isFatal(err) {
			return true
		}
	}

	return false
}

// WarningOnly returns a new error list with only the warning severity errors.
func WarningOnly(errs []error) []error {
	errsWarning := make([]error, 0, len(errs))

	for _, err := range errs {
		if IsWarning(err) {
			errsWarning = append(errsWarning, err)
		}
	}

	return errsWarning
}
