package metadata

import "regexp"

// tagRule maps a recognition pattern to the value it normalizes to. Rules
// are evaluated in table order; for quality that order is resolution
// priority, so a name carrying both 720p and 2160p tokens resolves to 2160p.
type tagRule struct {
	pattern *regexp.Regexp
	value   string
}

var qualityRules = []tagRule{
	{regexp.MustCompile(`(?i)\b(2160p|4k|uhd)\b`), "2160p"},
	{regexp.MustCompile(`(?i)\b1080p\b`), "1080p"},
	{regexp.MustCompile(`(?i)\b720p\b`), "720p"},
	{regexp.MustCompile(`(?i)\b576p\b`), "576p"},
	{regexp.MustCompile(`(?i)\b480p\b`), "480p"},
}

var sourceRules = []tagRule{
	{regexp.MustCompile(`(?i)\bweb[-._ ]?dl\b`), "WEB-DL"},
	{regexp.MustCompile(`(?i)\bweb[-._ ]?rip\b`), "WEBRip"},
	{regexp.MustCompile(`(?i)\bblu[-._ ]?ray\b`), "BluRay"},
	{regexp.MustCompile(`(?i)\bbdrip\b`), "BDRip"},
	{regexp.MustCompile(`(?i)\bbrrip\b`), "BRRip"},
	{regexp.MustCompile(`(?i)\bdvdrip\b`), "DVDRip"},
	{regexp.MustCompile(`(?i)\bhdrip\b`), "HDRip"},
	{regexp.MustCompile(`(?i)\bhdts\b`), "HDTS"},
	{regexp.MustCompile(`(?i)\bcam\b`), "CAM"},
}

var codecRules = []tagRule{
	{regexp.MustCompile(`(?i)\bx264\b`), "X264"},
	{regexp.MustCompile(`(?i)\bx265\b`), "X265"},
	{regexp.MustCompile(`(?i)\bhevc\b`), "HEVC"},
	{regexp.MustCompile(`(?i)\bh[._ ]?264\b`), "H264"},
	{regexp.MustCompile(`(?i)\bh[._ ]?265\b`), "H265"},
	{regexp.MustCompile(`(?i)\bav1\b`), "AV1"},
}

// yearPattern matches a run of exactly four digits in [1900,2099]; the
// non-digit guards keep it from firing inside longer digit runs.
var yearPattern = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)[0-9]{2})(?:[^0-9]|$)`)

// episodePatterns recognize TV episode markers: S01E02 style first, then
// the 1x02 shorthand.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bS([0-9]{1,2})[ ._-]?E([0-9]{1,3})\b`),
	regexp.MustCompile(`(?i)\b([0-9]{1,2})x([0-9]{2,3})\b`),
}

func matchTag(rules []tagRule, name string) string {
	for _, rule := range rules {
		if rule.pattern.MatchString(name) {
			return rule.value
		}
	}
	return ""
}

// earliestTagIndex returns the smallest index at which any recognized tag
// (quality, source, codec, year, episode marker) begins, or -1 when the
// name carries no tags. Used to split the display title from the tag tail.
func earliestTagIndex(name string) int {
	earliest := -1
	consider := func(loc []int) {
		if loc == nil {
			return
		}
		if earliest == -1 || loc[0] < earliest {
			earliest = loc[0]
		}
	}
	for _, group := range [][]tagRule{qualityRules, sourceRules, codecRules} {
		for _, rule := range group {
			consider(rule.pattern.FindStringIndex(name))
		}
	}
	if loc := yearPattern.FindStringSubmatchIndex(name); loc != nil {
		// Index of the captured year, not the leading non-digit guard.
		consider(loc[2:4])
	}
	for _, pattern := range episodePatterns {
		consider(pattern.FindStringIndex(name))
	}
	return earliest
}
