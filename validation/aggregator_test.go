package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealqa/dealqa-server/mediaplan"
)

func passingResult(dealName, tagName, deviceTargeted string) Result {
	r := Result{
		TagName:        tagName,
		DealName:       dealName,
		DealFound:      true,
		DeviceTargeted: deviceTargeted,
	}
	r.finalizeSummary()
	return r
}

func TestAggregateMissingPlatform(t *testing.T) {
	plan := planWith(mediaplan.Record{DealName: "Dual_Deal", DeviceTargeted: "AOS and IOS"})

	report := Aggregate(plan, []Result{
		passingResult("Dual_Deal", "Dual_Deal_AOS", "AOS and IOS"),
	})

	require.Len(t, report.Deals, 1)
	group := report.Deals[0]
	assert.Equal(t, []Platform{PlatformIOS}, group.Missing)
	assert.Equal(t, StatusFail, group.Status, "a deal missing an expected platform's tag fails")
	assert.Equal(t, []string{"Dual_Deal"}, report.Summary.DealsMissingTags)
}

func TestAggregateFirstMatchWinsPerPlatform(t *testing.T) {
	plan := planWith(mediaplan.Record{DealName: "Deal", DeviceTargeted: "CTV"})

	first := passingResult("Deal", "Deal_CTV", "CTV")
	second := passingResult("Deal", "Deal_CTV_backup", "CTV")

	report := Aggregate(plan, []Result{first, second})

	require.Len(t, report.Deals, 1)
	kept := report.Deals[0].Tags[PlatformCTV]
	assert.Equal(t, "Deal_CTV", kept.TagName, "the first encountered result for a platform is kept")
}

func TestAggregateUnmatchedTagsReportedSeparately(t *testing.T) {
	plan := planWith(mediaplan.Record{DealName: "Deal", DeviceTargeted: "CTV"})

	unmatched := Result{TagName: "Stray_Tag", DealName: DealNotFound, DealFound: false}
	unmatched.finalizeSummary()

	report := Aggregate(plan, []Result{
		passingResult("Deal", "Deal_CTV", "CTV"),
		unmatched,
	})

	assert.Equal(t, []string{"Stray_Tag"}, report.UnmatchedTags)
	assert.Equal(t, []string{"Stray_Tag"}, report.Summary.UnmatchedTags)
	require.Len(t, report.Deals, 1, "unmatched tags are not folded into any deal group")
}

func TestAggregateDealStatusFromTagSummaries(t *testing.T) {
	plan := planWith(
		mediaplan.Record{DealName: "Pass_Deal", DeviceTargeted: "CTV"},
		mediaplan.Record{DealName: "Warn_Deal", DeviceTargeted: "CTV"},
		mediaplan.Record{DealName: "Fail_Deal", DeviceTargeted: "CTV"},
	)

	warn := passingResult("Warn_Deal", "Warn_Deal_CTV", "CTV")
	warn.DurationStatus = CheckWarning
	warn.finalizeSummary()

	fail := passingResult("Fail_Deal", "Fail_Deal_CTV", "CTV")
	fail.MacroStatus = CheckFail
	fail.finalizeSummary()

	report := Aggregate(plan, []Result{
		passingResult("Pass_Deal", "Pass_Deal_CTV", "CTV"),
		warn,
		fail,
	})

	require.Len(t, report.Deals, 3)

	// FAIL first, then WARN, then PASS.
	assert.Equal(t, "Fail_Deal", report.Deals[0].DealName)
	assert.Equal(t, StatusFail, report.Deals[0].Status)
	assert.Equal(t, "Warn_Deal", report.Deals[1].DealName)
	assert.Equal(t, StatusWarn, report.Deals[1].Status)
	assert.Equal(t, "Pass_Deal", report.Deals[2].DealName)
	assert.Equal(t, StatusPass, report.Deals[2].Status)

	assert.Equal(t, 3, report.Summary.TotalDeals)
	assert.Equal(t, 1, report.Summary.Passed)
	assert.Equal(t, 1, report.Summary.Warned)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestAggregateTiesPreservePlanOrder(t *testing.T) {
	plan := planWith(
		mediaplan.Record{DealName: "B_Deal", DeviceTargeted: "CTV"},
		mediaplan.Record{DealName: "A_Deal", DeviceTargeted: "CTV"},
	)

	report := Aggregate(plan, []Result{
		passingResult("B_Deal", "B_Deal_CTV", "CTV"),
		passingResult("A_Deal", "A_Deal_CTV", "CTV"),
	})

	require.Len(t, report.Deals, 2)
	assert.Equal(t, "B_Deal", report.Deals[0].DealName, "plan order, not alphabetical order")
	assert.Equal(t, "A_Deal", report.Deals[1].DealName)
}

func TestAggregateDealWithNoTagsAtAll(t *testing.T) {
	plan := planWith(mediaplan.Record{DealName: "Lonely_Deal", DeviceTargeted: "CTV"})

	report := Aggregate(plan, nil)

	require.Len(t, report.Deals, 1)
	assert.Equal(t, StatusFail, report.Deals[0].Status)
	assert.Equal(t, []Platform{PlatformCTV}, report.Deals[0].Missing)
}
