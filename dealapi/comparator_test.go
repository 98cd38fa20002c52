package dealapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	testCases := []struct {
		description string
		raw         string
		expected    string
	}{
		{"iso with time component", "2019-03-22T09:31:18Z", "2019-03-22"},
		{"datetime with space", "2026-02-01 00:00:00", "2026-02-01"},
		{"already normalized", "2026-02-01", "2026-02-01"},
		{"excel serial day count", "46054", "2026-02-01"},
		{"mm-dd-yy", "02-01-26", "2026-02-01"},
		{"empty", "", ""},
		{"unparseable left alone", "soon", "soon"},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expected, NormalizeDate(test.raw), test.description)
	}
}

func TestNumbersMatch(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected bool
	}{
		{"550", "550.0", true},
		{"550", "549.6", true},
		{"550", "549.4", false},
		{"1,000,000", "1000000", true},
		{"550", "551", false},
		{"PG", "pg", true},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expected, numbersMatch(test.a, test.b), "%s vs %s", test.a, test.b)
	}
}

func TestCompareAllFieldsMatch(t *testing.T) {
	detail := NewDealDetail([]byte(`{
		"id": 138752,
		"name": "Brand_Summer_CTV",
		"cpm": 550.0,
		"startDate": "2026-02-01T00:00:00Z",
		"endDate": "2026-03-01T00:00:00Z",
		"budget": 1000000,
		"status": "Active"
	}`))

	row := SheetDeal{
		MetaID: "138752",
		Fields: map[Field]string{
			FieldDealName:  "brand_summer_ctv",
			FieldCPM:       "550",
			FieldStartDate: "2026-02-01 00:00:00",
			FieldEndDate:   "2026-03-01",
			FieldBudget:    "1,000,000",
		},
	}

	result := Compare(row, detail)
	assert.Equal(t, RowPass, result.Status)
	assert.Empty(t, result.Comments)
}

func TestCompareDiscrepancies(t *testing.T) {
	detail := NewDealDetail([]byte(`{
		"name": "Other_Deal",
		"cpm": 320,
		"status": "Active"
	}`))

	row := SheetDeal{
		MetaID: "138752",
		Fields: map[Field]string{
			FieldDealName: "Brand_Summer_CTV",
			FieldCPM:      "550",
		},
	}

	result := Compare(row, detail)
	assert.Equal(t, RowFail, result.Status)
	assert.Contains(t, result.Comments, "Deal Name: expected 'Brand_Summer_CTV', found 'Other_Deal'")
	assert.Contains(t, result.Comments, "CPM: expected '550', found '320'")
}

func TestCompareAbsenceIsNotAMismatch(t *testing.T) {
	detail := NewDealDetail([]byte(`{"name": "Brand_Summer_CTV", "status": "Active"}`))

	row := SheetDeal{
		MetaID: "138752",
		Fields: map[Field]string{
			FieldDealName: "Brand_Summer_CTV",
			FieldBudget:   "1000000",
		},
	}

	result := Compare(row, detail)
	assert.Equal(t, RowPass, result.Status, "a field empty on either side is skipped, not failed")

	for _, c := range result.Comparisons {
		assert.NotEqual(t, FieldBudget, c.Field, "skipped fields do not appear as comparisons")
	}
}

func TestCompareInactiveDealStatus(t *testing.T) {
	detail := NewDealDetail([]byte(`{"name": "Brand_Summer_CTV", "status": "Paused"}`))

	row := SheetDeal{
		MetaID: "138752",
		Fields: map[Field]string{FieldDealName: "Brand_Summer_CTV"},
	}

	result := Compare(row, detail)
	require.Equal(t, RowFail, result.Status)
	assert.Contains(t, result.Comments, "Deal Status: expected 'Active', found 'Paused'")
}

func TestCompareMissingDealStatusIsNotFlagged(t *testing.T) {
	detail := NewDealDetail([]byte(`{"name": "Brand_Summer_CTV"}`))

	row := SheetDeal{
		MetaID: "138752",
		Fields: map[Field]string{FieldDealName: "Brand_Summer_CTV"},
	}

	result := Compare(row, detail)
	assert.Equal(t, RowPass, result.Status)
}

func TestDealDetailField(t *testing.T) {
	detail := NewDealDetail([]byte(`{"name": "A \"quoted\" deal", "cpm": 550.5, "nested": {"dsp": "DV360"}, "gone": null}`))

	assert.Equal(t, `A "quoted" deal`, detail.Field("name"))
	assert.Equal(t, "550.5", detail.Field("cpm"))
	assert.Equal(t, "DV360", detail.Field("nested", "dsp"))
	assert.Equal(t, "", detail.Field("gone"))
	assert.Equal(t, "", detail.Field("absent"))
}
