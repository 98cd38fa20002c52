// Package export renders a validation run into a two-sheet workbook and reads
// one back. The export is lossless with respect to the aggregator's inputs:
// tag name, deal name, device target and the check statuses all round-trip.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dealqa/dealqa-server/errortypes"
	"github.com/dealqa/dealqa-server/validation"
)

const (
	ResultsSheet     = "Validation Results"
	MissingTagsSheet = "Deals Missing Tags"
)

var resultsHeader = []interface{}{
	"File", "Tag Name", "VAST URL", "Deal Name", "Device Targeted",
	"Suffix Check", "Filename Check", "Device Type Check", "Store/Bundle Check",
	"Duration Check", "Format Check", "Macro Check",
	"Publisher ID", "Missing Macros", "Duplicate Tag Name", "Summary",
}

// BuildWorkbook renders per-tag results and the deals left without tags.
func BuildWorkbook(results []validation.Result, report *validation.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", ResultsSheet)

	if err := f.SetSheetRow(ResultsSheet, "A1", &resultsHeader); err != nil {
		return nil, err
	}
	for i, res := range results {
		row := []interface{}{
			res.Filename, res.TagName, res.VastURL, res.DealName, res.DeviceTargeted,
			string(res.SuffixStatus), string(res.FilenameStatus), string(res.DeviceTypeStatus),
			string(res.StoreBundleStatus), string(res.DurationStatus), string(res.FormatStatus),
			string(res.MacroStatus),
			res.PubID, strings.Join(res.MissingMacros, ", "), formatBool(res.IsDuplicateTagName),
			res.Summary,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(MissingTagsSheet); err != nil {
		return nil, err
	}
	missingHeader := []interface{}{"Deal Name", "Expected Platforms", "Missing Platforms", "Status"}
	if err := f.SetSheetRow(MissingTagsSheet, "A1", &missingHeader); err != nil {
		return nil, err
	}
	rowIdx := 2
	for _, group := range report.Deals {
		if len(group.Missing) == 0 {
			continue
		}
		row := []interface{}{
			group.DealName,
			joinPlatforms(group.Expected),
			joinPlatforms(group.Missing),
			string(group.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetSheetRow(MissingTagsSheet, cell, &row); err != nil {
			return nil, err
		}
		rowIdx++
	}

	return f, nil
}

// Write streams the workbook for results and report to w.
func Write(w io.Writer, results []validation.Result, report *validation.Report) error {
	f, err := BuildWorkbook(results, report)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// ParseResults reads the results sheet of an exported workbook back into
// validation results.
func ParseResults(r io.Reader) ([]validation.Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to open results workbook: %v", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(ResultsSheet)
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to read sheet %q: %v", ResultsSheet, err)}
	}
	if len(rows) == 0 {
		return nil, &errortypes.BadInput{Message: "results sheet is empty"}
	}

	var results []validation.Result
	for _, row := range rows[1:] {
		res := validation.Result{
			Filename:           col(row, 0),
			TagName:            col(row, 1),
			VastURL:            col(row, 2),
			DealName:           col(row, 3),
			DeviceTargeted:     col(row, 4),
			SuffixStatus:       validation.CheckStatus(col(row, 5)),
			FilenameStatus:     validation.CheckStatus(col(row, 6)),
			DeviceTypeStatus:   validation.CheckStatus(col(row, 7)),
			StoreBundleStatus:  validation.CheckStatus(col(row, 8)),
			DurationStatus:     validation.CheckStatus(col(row, 9)),
			FormatStatus:       validation.CheckStatus(col(row, 10)),
			MacroStatus:        validation.CheckStatus(col(row, 11)),
			PubID:              col(row, 12),
			IsDuplicateTagName: col(row, 14) == "yes",
			Summary:            col(row, 15),
		}
		if missing := col(row, 13); missing != "" {
			res.MissingMacros = strings.Split(missing, ", ")
		}
		res.DealFound = res.DealName != "" && res.DealName != validation.DealNotFound
		results = append(results, res)
	}
	return results, nil
}

func col(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinPlatforms(platforms []validation.Platform) string {
	parts := make([]string, len(platforms))
	for i, p := range platforms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
