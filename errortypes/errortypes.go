package errortypes

// HeaderNotFound should be used when a spreadsheet does not contain a recognizable
// header row within the scanned range. It aborts the whole validation run for that
// file; no partial plan is produced.
type HeaderNotFound struct {
	Message string
}

func (err *HeaderNotFound) Error() string {
	return err.Message
}

func (err *HeaderNotFound) Code() int {
	return HeaderNotFoundErrorCode
}

func (err *HeaderNotFound) Severity() Severity {
	return SeverityFatal
}

// BadInput should be used when returning errors which are caused by bad input,
// e.g. a missing upload part or an unreadable workbook.
// It should _not_ be used if the error is a server-side issue.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string {
	return err.Message
}

func (err *BadInput) Code() int {
	return BadInputErrorCode
}

func (err *BadInput) Severity() Severity {
	return SeverityFatal
}

// BadServerResponse should be used when returning errors which are caused by
// bad/unexpected behavior on the remote deal API.
//
// For example:
//
//   - The deal API responded with a 500
//   - The deal API gave a malformed or unexpected response.
//
// These should not be used to log _connection_ errors (e.g. "couldn't find host"),
// which may indicate config issues for the operator.
type BadServerResponse struct {
	Message string
}

func (err *BadServerResponse) Error() string {
	return err.Message
}

func (err *BadServerResponse) Code() int {
	return BadServerResponseErrorCode
}

func (err *BadServerResponse) Severity() Severity {
	return SeverityFatal
}

// Warning is a generic non-fatal error.
type Warning struct {
	Message     string
	WarningCode int
}

func (err *Warning) Error() string {
	return err.Message
}

func (err *Warning) Code() int {
	return err.WarningCode
}

func (err *Warning) Severity() Severity {
	return SeverityWarning
}
