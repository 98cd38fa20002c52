package validation

import (
	"strings"

	"github.com/dealqa/dealqa-server/mediaplan"
)

// DealNotFound is the sentinel deal name for tags with no plan match.
const DealNotFound = "Deal Not Found"

// TagSuffixes are the platform suffixes trafficking appends to deal names when
// naming tags. The order is a contract: it is the order the matcher tries them
// in, and two suffixes can both be valid endings of the same string, so it must
// not be "normalized" to alphabetical.
var TagSuffixes = []string{"_IOS", "_AOS", "_CTV", "_AOS+IOS", "_IOS+AOS", "_Mobile", "_Desktop"}

// MatchDeal resolves a tag name to a media-plan deal: exact match after
// trimming, then suffix-stripped lookup over TagSuffixes in order. The first
// suffix that both matches the tag's end and yields a known base name wins.
// Returns the sentinel name and nil when nothing matches.
func MatchDeal(tagName string, plan *mediaplan.Plan) (string, *mediaplan.Record) {
	trimmed := strings.TrimSpace(tagName)

	if rec, ok := plan.Lookup(trimmed); ok {
		return rec.DealName, &rec
	}

	for _, suffix := range TagSuffixes {
		if !strings.HasSuffix(trimmed, suffix) {
			continue
		}
		base := strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
		if rec, ok := plan.Lookup(base); ok {
			return rec.DealName, &rec
		}
	}

	return DealNotFound, nil
}
