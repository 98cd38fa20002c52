package mediaplan

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dealqa/dealqa-server/errortypes"
)

// headerScanLimit bounds the search for the header row. Media plans routinely
// carry a few title/branding rows above the real table.
const headerScanLimit = 20

// Record is one media-plan deal row, keyed by its effective name.
type Record struct {
	DealName       string
	DealID         string
	DeviceTargeted string
	// AdDuration holds the planned creative length in seconds. Nil means the
	// plan imposes no duration constraint on the tag.
	AdDuration *float64
	Format     string
}

// Plan is the parsed media plan. Deals is keyed by trimmed deal name; Order
// preserves the original row order of the surviving names. Duplicates lists
// names that appeared more than once (last row wins in Deals).
type Plan struct {
	Deals      map[string]Record
	Order      []string
	Duplicates []string
}

// Lookup returns the deal record for an exact (trimmed) name.
func (p *Plan) Lookup(name string) (Record, bool) {
	rec, ok := p.Deals[strings.TrimSpace(name)]
	return rec, ok
}

// Parse reads the first sheet of an xlsx media plan.
func Parse(r io.Reader) (*Plan, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to open media plan workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &errortypes.BadInput{Message: "media plan workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &errortypes.BadInput{Message: fmt.Sprintf("unable to read sheet %q: %v", sheets[0], err)}
	}
	return ParseRows(rows)
}

// ParseRows builds a Plan from raw stringified rows. Exposed separately so the
// export round-trip and tests can feed rows without a workbook.
func ParseRows(rows [][]string) (*Plan, error) {
	headerIdx, ok := findHeaderRow(rows)
	if !ok {
		return nil, &errortypes.HeaderNotFound{
			Message: "could not locate media plan header row: no row within the first 20 contains \"deal name\" or \"deal id\" together with \"device targeted\"",
		}
	}

	cols := mapColumns(rows[headerIdx])

	plan := &Plan{Deals: make(map[string]Record)}
	for _, row := range rows[headerIdx+1:] {
		name := strings.TrimSpace(cell(row, cols.dealName))
		dealID := strings.TrimSpace(cell(row, cols.dealID))
		if name == "" {
			name = dealID
		}
		if name == "" {
			continue
		}

		rec := Record{
			DealName:       name,
			DealID:         dealID,
			DeviceTargeted: strings.TrimSpace(cell(row, cols.deviceTargeted)),
			AdDuration:     parseDuration(cell(row, cols.adDuration)),
			Format:         strings.TrimSpace(cell(row, cols.format)),
		}

		if _, seen := plan.Deals[name]; seen {
			plan.Duplicates = append(plan.Duplicates, name)
		} else {
			plan.Order = append(plan.Order, name)
		}
		// Last row wins on duplicate names.
		plan.Deals[name] = rec
	}

	return plan, nil
}

// findHeaderRow scans the first headerScanLimit rows for one whose joined cells
// contain ("deal name" or "deal id") and "device targeted".
func findHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(rows[i], "|"))
		if (strings.Contains(joined, "deal name") || strings.Contains(joined, "deal id")) &&
			strings.Contains(joined, "device targeted") {
			return i, true
		}
	}
	return 0, false
}

type columnIndexes struct {
	dealName       int
	dealID         int
	deviceTargeted int
	adDuration     int
	format         int
}

func mapColumns(header []string) columnIndexes {
	cols := columnIndexes{dealName: -1, dealID: -1, deviceTargeted: -1, adDuration: -1, format: -1}
	for i, raw := range header {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "deal name", "dealname":
			cols.dealName = i
		case "deal id":
			cols.dealID = i
		case "device targeted", "devicetargeted":
			cols.deviceTargeted = i
		case "ad duration(sec)", "ad duration":
			cols.adDuration = i
		case "format":
			cols.format = i
		}
	}
	return cols
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseDuration coerces the duration cell to a positive number of seconds.
// Anything non-numeric means no duration constraint.
func parseDuration(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d <= 0 {
		return nil
	}
	return &d
}
