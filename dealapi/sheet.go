package dealapi

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dealqa/dealqa-server/errortypes"
)

const headerScanLimit = 20

// SheetDeal is one row of the deal-check spreadsheet.
type SheetDeal struct {
	MetaID string
	Fields map[Field]string
}

// ParseSheet reads the first sheet of a deal-check workbook.
func ParseSheet(r io.Reader) ([]SheetDeal, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to open deal-check workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &errortypes.BadInput{Message: "deal-check workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to read sheet %q: %v", sheets[0], err)}
	}
	return ParseSheetRows(rows)
}

// ParseSheetRows builds the deal list from raw stringified rows.
func ParseSheetRows(rows [][]string) ([]SheetDeal, error) {
	headerIdx := -1
	for i := 0; i < len(rows) && i < headerScanLimit; i++ {
		if strings.Contains(strings.ToLower(strings.Join(rows[i], "|")), "deal meta id") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &errortypes.HeaderNotFound{
			Message: "could not locate deal-check header row: no row within the first 20 contains \"Deal Meta ID\"",
		}
	}

	metaIDCol, fieldCols := mapSheetColumns(rows[headerIdx])

	var deals []SheetDeal
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		deal := SheetDeal{
			MetaID: strings.TrimSpace(sheetCell(row, metaIDCol)),
			Fields: make(map[Field]string),
		}
		for field, col := range fieldCols {
			if value := strings.TrimSpace(sheetCell(row, col)); value != "" {
				deal.Fields[field] = value
			}
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// columnMatchers pairs a header substring with the field it selects. Ordered
// so that the more specific fragments win ("deal meta id" before "deal name",
// "deal type" before any later "deal" fragment would).
var columnMatchers = []struct {
	fragment string
	field    Field
}{
	{"deal name", FieldDealName},
	{"deal type", FieldDealType},
	{"cpm", FieldCPM},
	{"start date", FieldStartDate},
	{"end date", FieldEndDate},
	{"budget", FieldBudget},
	{"impression", FieldImpressions},
	{"frequency", FieldFrequencyCap},
	{"dsp", FieldDSP},
}

func mapSheetColumns(header []string) (int, map[Field]int) {
	metaIDCol := -1
	fieldCols := make(map[Field]int)
	for i, raw := range header {
		cell := strings.ToLower(strings.TrimSpace(raw))
		if cell == "" {
			continue
		}
		if strings.Contains(cell, "deal meta id") {
			metaIDCol = i
			continue
		}
		for _, matcher := range columnMatchers {
			if strings.Contains(cell, matcher.fragment) {
				if _, taken := fieldCols[matcher.field]; !taken {
					fieldCols[matcher.field] = i
				}
				break
			}
		}
	}
	return metaIDCol, fieldCols
}

func sheetCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
