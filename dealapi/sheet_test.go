package dealapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSheetRows(t *testing.T) {
	rows := [][]string{
		{"PMP Deals - Q3", ""},
		{"Deal Meta ID", "Deal Name", "CPM (INR)", "Start Date (MM-DD-YY)", "End date (MM-DD-YY)", "Budget (INR)", "DSP"},
		{"138752", "Brand_Summer_CTV", "550", "02-01-26", "03-01-26", "1000000", "DV360"},
		{"", "", "", "", "", "", ""},
		{"TRESemme_618864", "Brand_Winter", "320", "", "", "", ""},
	}

	deals, err := ParseSheetRows(rows)
	require.NoError(t, err)
	require.Len(t, deals, 2)

	assert.Equal(t, "138752", deals[0].MetaID)
	assert.Equal(t, "Brand_Summer_CTV", deals[0].Fields[FieldDealName])
	assert.Equal(t, "550", deals[0].Fields[FieldCPM])
	assert.Equal(t, "02-01-26", deals[0].Fields[FieldStartDate])
	assert.Equal(t, "1000000", deals[0].Fields[FieldBudget])
	assert.Equal(t, "DV360", deals[0].Fields[FieldDSP])

	// Non-numeric ids still come through; the runner decides they are SKIPPED.
	assert.Equal(t, "TRESemme_618864", deals[1].MetaID)
	_, ok := deals[1].Fields[FieldBudget]
	assert.False(t, ok, "empty cells are not collected")
}

func TestParseSheetRowsHeaderMissing(t *testing.T) {
	rows := [][]string{
		{"Deal ID", "Deal Name"},
		{"1", "x"},
	}

	_, err := ParseSheetRows(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Deal Meta ID")
}

func TestMapSheetColumnsSpecificFragmentsWin(t *testing.T) {
	metaIDCol, fieldCols := mapSheetColumns([]string{"Deal Meta ID", "Deal Name", "Deal Type", "Frequency Cap"})

	assert.Equal(t, 0, metaIDCol)
	assert.Equal(t, 1, fieldCols[FieldDealName])
	assert.Equal(t, 2, fieldCols[FieldDealType])
	assert.Equal(t, 3, fieldCols[FieldFrequencyCap])
}
