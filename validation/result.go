package validation

import "strings"

// Status is the overall outcome of one tag or one deal.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// CheckStatus is the outcome of one check dimension on a tag.
type CheckStatus string

const (
	CheckNA       CheckStatus = "N/A"
	CheckPass     CheckStatus = "Pass"
	CheckFail     CheckStatus = "Fail"
	CheckValid    CheckStatus = "Valid"
	CheckInvalid  CheckStatus = "Invalid"
	CheckWarning  CheckStatus = "Warning"
	CheckMismatch CheckStatus = "Mismatch"

	// CheckNoPublisherID marks a tag URL carrying no pubid parameter at all,
	// as opposed to a publisher whose requirements were not met.
	CheckNoPublisherID CheckStatus = "No Publisher ID"

	// CheckNoRequirements marks a pubid with no entry in the macro rule table.
	CheckNoRequirements CheckStatus = "No Requirements Defined"
)

// allClearMessage is the summary body when no check produced a message.
const allClearMessage = "All checks passed"

// Result is the structured outcome of validating one tag against the plan.
type Result struct {
	Filename       string `json:"filename"`
	TagName        string `json:"tagName"`
	VastURL        string `json:"vastUrl"`
	DealName       string `json:"dealName"`
	DealFound      bool   `json:"dealFound"`
	DeviceTargeted string `json:"deviceTargeted,omitempty"`

	SuffixStatus      CheckStatus `json:"suffixStatus"`
	FilenameStatus    CheckStatus `json:"filenameStatus"`
	DeviceTypeStatus  CheckStatus `json:"deviceTypeStatus"`
	StoreBundleStatus CheckStatus `json:"storeBundleStatus"`
	DurationStatus    CheckStatus `json:"durationStatus"`
	FormatStatus      CheckStatus `json:"formatStatus"`
	MacroStatus       CheckStatus `json:"macroStatus"`

	PubID         string   `json:"pubId,omitempty"`
	MissingMacros []string `json:"missingMacros,omitempty"`

	IsDuplicateTagName bool     `json:"isDuplicateTagName"`
	Messages           []string `json:"messages,omitempty"`
	Summary            string   `json:"summary"`
}

// Status derives the overall outcome from the per-check statuses. The Summary
// prefix is always this value.
func (r *Result) Status() Status {
	if !r.DealFound ||
		r.SuffixStatus == CheckMismatch ||
		r.DeviceTypeStatus == CheckInvalid ||
		r.StoreBundleStatus == CheckInvalid ||
		r.DurationStatus == CheckInvalid ||
		r.FormatStatus == CheckFail ||
		r.MacroStatus == CheckFail {
		return StatusFail
	}
	if r.FilenameStatus == CheckWarning || r.DurationStatus == CheckWarning {
		return StatusWarn
	}
	return StatusPass
}

// finalizeSummary composes the summary string from the derived status and the
// collected messages.
func (r *Result) finalizeSummary() {
	body := allClearMessage
	if len(r.Messages) > 0 {
		body = strings.Join(r.Messages, "; ")
	}
	r.Summary = string(r.Status()) + " - " + body
}

// FlagDuplicates overlays the duplicate-tag-name flag onto an independently
// validated result set: every result whose tag name occurs more than once
// across all uploaded files gets the flag, deal-matched or not. The input
// slice is not mutated.
func FlagDuplicates(results []Result) []Result {
	counts := make(map[string]int, len(results))
	for _, r := range results {
		counts[r.TagName]++
	}

	flagged := make([]Result, len(results))
	for i, r := range results {
		r.IsDuplicateTagName = counts[r.TagName] > 1
		flagged[i] = r
	}
	return flagged
}
