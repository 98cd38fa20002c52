package validation

import (
	"github.com/dealqa/dealqa-server/mediaplan"
)

// DealGroup rolls the per-tag results for one deal up by platform.
type DealGroup struct {
	DealName string              `json:"dealName"`
	Expected []Platform          `json:"expectedPlatforms"`
	Tags     map[Platform]Result `json:"tags,omitempty"`
	Missing  []Platform          `json:"missingPlatforms,omitempty"`
	Status   Status              `json:"status"`
}

// Summary carries the run-level statistics.
type Summary struct {
	TotalDeals       int      `json:"totalDeals"`
	Passed           int      `json:"passed"`
	Warned           int      `json:"warned"`
	Failed           int      `json:"failed"`
	DealsMissingTags []string `json:"dealsMissingTags,omitempty"`
	UnmatchedTags    []string `json:"unmatchedTags,omitempty"`
}

// Report is the aggregated outcome of one validation run.
type Report struct {
	Deals         []DealGroup `json:"deals"`
	UnmatchedTags []string    `json:"unmatchedTags,omitempty"`
	Summary       Summary     `json:"summary"`
}

// Aggregate groups validated results by deal and platform. Every plan deal
// gets a group, tags or not. Within one deal and platform the first matching
// result wins; later ones are ignored at the grouping level regardless of
// their duplicate flag. Unmatched tags are reported separately.
func Aggregate(plan *mediaplan.Plan, results []Result) *Report {
	groups := make(map[string]*DealGroup, len(plan.Order))
	for _, name := range plan.Order {
		rec := plan.Deals[name]
		groups[name] = &DealGroup{
			DealName: name,
			Expected: ExpectedPlatforms(rec.DeviceTargeted),
			Tags:     make(map[Platform]Result),
		}
	}

	report := &Report{}
	for _, res := range results {
		if !res.DealFound {
			report.UnmatchedTags = append(report.UnmatchedTags, res.TagName)
			continue
		}
		group, ok := groups[res.DealName]
		if !ok {
			// Matched name not in the plan order can only mean a stale result
			// set; treat like an unmatched tag rather than dropping it.
			report.UnmatchedTags = append(report.UnmatchedTags, res.TagName)
			continue
		}
		platform := ClassifyPlatform(res.TagName, res.DeviceTargeted)
		if _, taken := group.Tags[platform]; !taken {
			group.Tags[platform] = res
		}
	}

	for _, name := range plan.Order {
		group := groups[name]
		for _, expected := range group.Expected {
			if _, ok := group.Tags[expected]; !ok {
				group.Missing = append(group.Missing, expected)
			}
		}
		group.Status = dealStatus(group)
	}

	// FAIL first, then WARN, then PASS; plan order within each band.
	for _, want := range []Status{StatusFail, StatusWarn, StatusPass} {
		for _, name := range plan.Order {
			if group := groups[name]; group.Status == want {
				report.Deals = append(report.Deals, *group)
			}
		}
	}

	report.Summary = summarize(report)
	return report
}

// dealStatus: a deal fails when any expected platform has no tag, or any of
// its tags failed; it warns when any tag warned; otherwise it passes.
func dealStatus(group *DealGroup) Status {
	if len(group.Missing) > 0 {
		return StatusFail
	}
	status := StatusPass
	for _, res := range group.Tags {
		switch res.Status() {
		case StatusFail:
			return StatusFail
		case StatusWarn:
			status = StatusWarn
		}
	}
	return status
}

func summarize(report *Report) Summary {
	s := Summary{
		TotalDeals:    len(report.Deals),
		UnmatchedTags: report.UnmatchedTags,
	}
	for _, group := range report.Deals {
		switch group.Status {
		case StatusPass:
			s.Passed++
		case StatusWarn:
			s.Warned++
		case StatusFail:
			s.Failed++
		}
		if len(group.Missing) > 0 {
			s.DealsMissingTags = append(s.DealsMissingTags, group.DealName)
		}
	}
	return s
}
