package dealapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field names one compared deal attribute in report output.
type Field string

const (
	FieldDealName     Field = "Deal Name"
	FieldCPM          Field = "CPM"
	FieldStartDate    Field = "Start Date"
	FieldEndDate      Field = "End Date"
	FieldBudget       Field = "Budget"
	FieldImpressions  Field = "Impressions"
	FieldFrequencyCap Field = "Frequency Cap"
	FieldDSP          Field = "DSP"
	FieldDealType     Field = "Deal Type"
	FieldDealStatus   Field = "Deal Status"
)

// RowStatus is the outcome of comparing one spreadsheet row.
type RowStatus string

const (
	RowPass    RowStatus = "PASS"
	RowFail    RowStatus = "FAIL"
	RowSkipped RowStatus = "SKIPPED"
	RowError   RowStatus = "ERROR"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindDate
)

type fieldCheck struct {
	field   Field
	apiPath []string
	kind    fieldKind
}

// fieldChecks maps spreadsheet fields to their API counterparts.
var fieldChecks = []fieldCheck{
	{FieldDealName, []string{"name"}, kindString},
	{FieldCPM, []string{"cpm"}, kindNumber},
	{FieldStartDate, []string{"startDate"}, kindDate},
	{FieldEndDate, []string{"endDate"}, kindDate},
	{FieldBudget, []string{"budget"}, kindNumber},
	{FieldImpressions, []string{"impressions"}, kindNumber},
	{FieldFrequencyCap, []string{"frequencyCap"}, kindNumber},
	{FieldDSP, []string{"dsp"}, kindString},
	{FieldDealType, []string{"dealType"}, kindString},
}

// FieldComparison is one excel-value/api-value pair.
type FieldComparison struct {
	Field      Field  `json:"field"`
	ExcelValue string `json:"excelValue"`
	APIValue   string `json:"apiValue"`
	Match      bool   `json:"match"`
}

// RowResult is the comparison outcome for one spreadsheet row.
type RowResult struct {
	DealID      string            `json:"dealId"`
	Status      RowStatus         `json:"status"`
	Comparisons []FieldComparison `json:"comparisons,omitempty"`
	Comments    string            `json:"comments,omitempty"`
}

// Compare checks one spreadsheet row against its fetched deal record,
// field by field. Absence on either side skips the field; the API-side deal
// status is the one exception and must be "active".
func Compare(row SheetDeal, detail *DealDetail) RowResult {
	result := RowResult{DealID: row.MetaID}
	var discrepancies []string

	for _, check := range fieldChecks {
		excelVal := strings.TrimSpace(row.Fields[check.field])
		apiVal := strings.TrimSpace(detail.Field(check.apiPath...))
		if excelVal == "" || apiVal == "" {
			continue
		}

		comparison := FieldComparison{Field: check.field, ExcelValue: excelVal, APIValue: apiVal}
		switch check.kind {
		case kindDate:
			comparison.Match = NormalizeDate(excelVal) == NormalizeDate(apiVal)
		case kindNumber:
			comparison.Match = numbersMatch(excelVal, apiVal)
		default:
			comparison.Match = strings.EqualFold(excelVal, apiVal)
		}

		result.Comparisons = append(result.Comparisons, comparison)
		if !comparison.Match {
			discrepancies = append(discrepancies,
				fmt.Sprintf("%s: expected '%s', found '%s'", check.field, excelVal, apiVal))
		}
	}

	// API-only field: anything but an active deal is worth flagging.
	if status := strings.TrimSpace(detail.Field("status")); status != "" && !strings.EqualFold(status, "active") {
		result.Comparisons = append(result.Comparisons, FieldComparison{
			Field:    FieldDealStatus,
			APIValue: status,
		})
		discrepancies = append(discrepancies,
			fmt.Sprintf("%s: expected 'Active', found '%s'", FieldDealStatus, status))
	}

	if len(discrepancies) > 0 {
		result.Status = RowFail
		result.Comments = strings.Join(discrepancies, "; ")
	} else {
		result.Status = RowPass
	}
	return result
}

// excelEpoch is the zero day of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order for textual date cells.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"01/02/2006",
	"2006/01/02",
	"02 Jan 2006",
}

// NormalizeDate reduces a date representation to YYYY-MM-DD. Spreadsheet
// cells may arrive as serial day counts; API dates may carry a time component
// to truncate. Unrecognized input is returned as-is so a mismatch surfaces
// instead of silently passing.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelEpoch.Add(time.Duration(serial * float64(24*time.Hour))).Format("2006-01-02")
	}

	if i := strings.IndexAny(raw, "T "); i >= 0 {
		raw = raw[:i]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// numbersMatch compares two numeric strings after rounding to the nearest
// integer, absorbing rounding noise between the two systems. Non-numeric
// values fall back to a case-insensitive string comparison.
func numbersMatch(a, b string) bool {
	fa, errA := strconv.ParseFloat(stripGrouping(a), 64)
	fb, errB := strconv.ParseFloat(stripGrouping(b), 64)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return math.Round(fa) == math.Round(fb)
}

func stripGrouping(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
