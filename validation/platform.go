package validation

import "strings"

// Platform identifies where a tag is meant to serve.
type Platform string

const (
	PlatformCTV Platform = "ctv"
	PlatformAOS Platform = "aos"
	PlatformIOS Platform = "ios"
)

// mobileMarkers are the device-target substrings that imply an Android buy.
var mobileMarkers = []string{"AOS", "MOBILE", "ANDROID"}

// ExpectedPlatforms derives the platform set a deal expects tags for from its
// free-text device target. Each platform is tested independently, so a target
// like "AOS and IOS" yields both. An unrecognized target defaults to CTV.
func ExpectedPlatforms(deviceTargeted string) []Platform {
	target := strings.ToUpper(deviceTargeted)
	var platforms []Platform
	if strings.Contains(target, "CTV") {
		platforms = append(platforms, PlatformCTV)
	}
	if containsAny(target, mobileMarkers...) {
		platforms = append(platforms, PlatformAOS)
	}
	if strings.Contains(target, "IOS") {
		platforms = append(platforms, PlatformIOS)
	}
	if len(platforms) == 0 {
		platforms = []Platform{PlatformCTV}
	}
	return platforms
}

// ClassifyPlatform resolves the platform of one tag: the tag-name suffix wins,
// then the deal's device target with IOS-but-not-AOS taking precedence over
// the Android markers, then CTV.
func ClassifyPlatform(tagName, deviceTargeted string) Platform {
	upper := strings.ToUpper(strings.TrimSpace(tagName))
	switch {
	case strings.HasSuffix(upper, "_IOS"):
		return PlatformIOS
	case strings.HasSuffix(upper, "_AOS"):
		return PlatformAOS
	case strings.HasSuffix(upper, "_CTV"):
		return PlatformCTV
	}

	target := strings.ToUpper(deviceTargeted)
	switch {
	case strings.Contains(target, "IOS") && !strings.Contains(target, "AOS"):
		return PlatformIOS
	case containsAny(target, mobileMarkers...):
		return PlatformAOS
	default:
		return PlatformCTV
	}
}

// targetIncludesCTV reports whether the device target covers CTV.
func targetIncludesCTV(deviceTargeted string) bool {
	return strings.Contains(strings.ToUpper(deviceTargeted), "CTV")
}

// targetIncludesMobile reports whether the device target covers AOS or IOS.
func targetIncludesMobile(deviceTargeted string) bool {
	target := strings.ToUpper(deviceTargeted)
	return containsAny(target, mobileMarkers...) || strings.Contains(target, "IOS")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
