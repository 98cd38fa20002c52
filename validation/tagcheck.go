package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dealqa/dealqa-server/adtags"
	"github.com/dealqa/dealqa-server/macrorules"
	"github.com/dealqa/dealqa-server/mediaplan"
)

// Tag URLs carry unescaped macro placeholders ([STOREURL], %%PATTERN%%), so
// parameter extraction is pattern based rather than url.Parse based. The "="
// may arrive URL-encoded.
var (
	deviceType3Pattern = regexp.MustCompile(`(?i)devicetype(?:=|%3D)3`)
	vmaxlPattern       = regexp.MustCompile(`(?i)vmaxl(?:=|%3D)(\d+)`)
	pubIDPattern       = regexp.MustCompile(`(?i)pubid(?:=|%3D)(\d+)`)
)

// Validator runs the per-tag check battery.
type Validator struct {
	rules *macrorules.Table
}

func NewValidator(rules *macrorules.Table) *Validator {
	return &Validator{rules: rules}
}

// Validate checks one tag against the plan and produces its Result. Pure
// computation; duplicate-tag detection happens across results in FlagDuplicates.
func (v *Validator) Validate(entry adtags.Entry, plan *mediaplan.Plan) Result {
	res := Result{
		Filename:          entry.Filename,
		TagName:           entry.TagName,
		VastURL:           entry.VastURL,
		SuffixStatus:      CheckNA,
		FilenameStatus:    CheckNA,
		DeviceTypeStatus:  CheckNA,
		StoreBundleStatus: CheckNA,
		DurationStatus:    CheckNA,
		FormatStatus:      CheckNA,
		MacroStatus:       CheckNA,
	}

	// 1. deal match
	dealName, rec := MatchDeal(entry.TagName, plan)
	res.DealName = dealName
	res.DealFound = rec != nil
	if rec == nil {
		res.Messages = append(res.Messages, "deal not found in media plan")
	} else {
		res.DeviceTargeted = rec.DeviceTargeted
	}

	if entry.VastURL == adtags.MissingURL {
		res.Messages = append(res.Messages, "no https:// URL found in tag block")
	}

	var target string
	if rec != nil {
		target = rec.DeviceTargeted
	}
	targetCTV := targetIncludesCTV(target)
	targetMobile := targetIncludesMobile(target)
	ctvOnly := rec != nil && targetCTV && !targetMobile
	mobileOnly := rec != nil && targetMobile && !targetCTV

	upperTag := strings.ToUpper(entry.TagName)
	hasDeviceType3 := deviceType3Pattern.MatchString(entry.VastURL)

	// 2. tag-name suffix consistency
	if rec != nil {
		res.SuffixStatus = CheckPass
		if ctvOnly && (strings.Contains(upperTag, "_AOS") || strings.Contains(upperTag, "_IOS")) {
			res.SuffixStatus = CheckMismatch
			res.Messages = append(res.Messages,
				fmt.Sprintf("tag name carries a mobile suffix but deal %q targets CTV only", dealName))
		}
	}

	// 3. filename consistency (soft) and 4. devicetype parameter share these
	// flags so the same root cause is reported once. Explicit booleans, not
	// message-text matching.
	var filenameCTVDealMobile bool
	var filenameMobileDealCTV bool

	if rec != nil {
		res.FilenameStatus = CheckPass
		lowerFile := strings.ToLower(entry.Filename)
		filenameCTV := strings.Contains(lowerFile, "ctv")
		filenameMobile := containsAny(lowerFile, "aos", "ios", "mobile")

		if filenameCTV && !targetCTV {
			filenameCTVDealMobile = true
			res.FilenameStatus = CheckWarning
			if hasDeviceType3 {
				res.Messages = append(res.Messages,
					"tag appears to be a CTV tag (filename and devicetype=3) but the matched deal targets mobile")
			} else {
				res.Messages = append(res.Messages,
					"filename suggests CTV but the matched deal targets mobile; the tag itself lacks devicetype=3")
			}
		} else if filenameMobile && ctvOnly {
			filenameMobileDealCTV = true
			res.FilenameStatus = CheckWarning
			if hasDeviceType3 {
				res.Messages = append(res.Messages,
					"filename suggests mobile but the matched deal targets CTV; the tag itself carries devicetype=3")
			} else {
				res.Messages = append(res.Messages,
					"tag appears to be a mobile tag (filename and no devicetype=3) but the matched deal targets CTV")
			}
		}
	}

	// 4. devicetype parameter: required on CTV, forbidden on mobile
	if rec != nil {
		switch {
		case targetCTV:
			if hasDeviceType3 {
				res.DeviceTypeStatus = CheckValid
			} else {
				res.DeviceTypeStatus = CheckInvalid
				if !filenameMobileDealCTV {
					res.Messages = append(res.Messages, "devicetype=3 is required for CTV deals but is missing")
				}
			}
		case mobileOnly:
			if hasDeviceType3 {
				res.DeviceTypeStatus = CheckInvalid
				if !filenameCTVDealMobile {
					res.Messages = append(res.Messages, "devicetype=3 must not be present on mobile deals")
				}
			} else {
				res.DeviceTypeStatus = CheckValid
			}
		}
	}

	// 5. storeurl / bundle parameters
	if rec != nil {
		lowerURL := strings.ToLower(entry.VastURL)
		hasStoreURL := strings.Contains(lowerURL, "storeurl") || strings.Contains(lowerURL, "store_url")
		hasBundle := strings.Contains(lowerURL, "bundle")

		switch {
		case targetCTV:
			if hasStoreURL && hasBundle {
				res.StoreBundleStatus = CheckValid
			} else {
				res.StoreBundleStatus = CheckInvalid
				var missing []string
				if !hasStoreURL {
					missing = append(missing, "storeurl")
				}
				if !hasBundle {
					missing = append(missing, "bundle")
				}
				res.Messages = append(res.Messages,
					fmt.Sprintf("CTV tag is missing required parameter(s): %s", strings.Join(missing, ", ")))
			}
		case mobileOnly:
			// Bundle absence is non-fatal on mobile.
			if hasStoreURL {
				res.StoreBundleStatus = CheckValid
			} else {
				res.StoreBundleStatus = CheckInvalid
				res.Messages = append(res.Messages, "mobile tag is missing the required storeurl parameter")
			}
		}
	}

	// 6. duration macro, only when the plan constrains duration
	if rec != nil && rec.AdDuration != nil {
		expected := int(*rec.AdDuration) + 1
		if m := vmaxlPattern.FindStringSubmatch(entry.VastURL); m != nil {
			actual, _ := strconv.Atoi(m[1])
			if actual == expected {
				res.DurationStatus = CheckValid
			} else {
				res.DurationStatus = CheckInvalid
				res.Messages = append(res.Messages,
					fmt.Sprintf("vmaxl is %d but ad duration %g requires vmaxl=%d", actual, *rec.AdDuration, expected))
			}
		} else {
			res.DurationStatus = CheckWarning
			res.Messages = append(res.Messages,
				fmt.Sprintf("vmaxl parameter not found; ad duration %g expects vmaxl=%d", *rec.AdDuration, expected))
		}
	}

	// 7. format compatibility
	if rec != nil && rec.Format != "" {
		if targetCTV && strings.Contains(strings.ToLower(rec.Format), "display") {
			res.FormatStatus = CheckFail
			res.Messages = append(res.Messages,
				fmt.Sprintf("format %q is not servable on a CTV deal", rec.Format))
		} else {
			res.FormatStatus = CheckPass
		}
	}

	// 8. publisher macro completeness
	if m := pubIDPattern.FindStringSubmatch(entry.VastURL); m != nil {
		res.PubID = m[1]
		platform := ClassifyPlatform(entry.TagName, target)
		required, defined := v.rules.Required(res.PubID, string(platform))
		if !defined {
			res.MacroStatus = CheckNoRequirements
		} else {
			lowerURL := strings.ToLower(entry.VastURL)
			for _, key := range required {
				if !strings.Contains(lowerURL, strings.ToLower(key)) {
					res.MissingMacros = append(res.MissingMacros, key)
				}
			}
			if len(res.MissingMacros) > 0 {
				res.MacroStatus = CheckFail
				res.Messages = append(res.Messages,
					fmt.Sprintf("publisher %s requires missing macro(s): %s", res.PubID, strings.Join(res.MissingMacros, ", ")))
			} else {
				res.MacroStatus = CheckPass
			}
		}
	} else {
		res.MacroStatus = CheckNoPublisherID
	}

	res.finalizeSummary()
	return res
}
