package adtags

import (
	"regexp"
	"strings"
)

// MissingURL marks a block that carried a tag name but no https token.
// The entry is still produced so the tag participates in matching and
// duplicate detection.
const MissingURL = "URL_NOT_FOUND"

// Entry is one ad tag parsed from a text block. Immutable after creation.
type Entry struct {
	Filename string
	TagName  string
	VastURL  string
}

// Blocks are separated by a line of 5 or more consecutive dashes.
var separatorLine = regexp.MustCompile(`^\s*-{5,}\s*$`)

// Parse splits a tag file into blocks and extracts one Entry per block.
// A file with no separator lines is a single block.
func Parse(filename, content string) []Entry {
	var entries []Entry
	for _, block := range splitBlocks(content) {
		if entry, ok := parseBlock(filename, block); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func splitBlocks(content string) []string {
	lines := strings.Split(content, "\n")
	var blocks []string
	var current []string
	for _, line := range lines {
		if separatorLine.MatchString(line) {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	blocks = append(blocks, strings.Join(current, "\n"))
	return blocks
}

// parseBlock extracts the tag name (first non-blank trimmed line) and the
// VAST URL (first whitespace-delimited token starting with https://).
func parseBlock(filename, block string) (Entry, bool) {
	var tagName string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			tagName = trimmed
			break
		}
	}
	if tagName == "" {
		return Entry{}, false
	}

	vastURL := MissingURL
	for _, token := range strings.Fields(block) {
		if strings.HasPrefix(token, "https://") {
			vastURL = token
			break
		}
	}

	return Entry{Filename: filename, TagName: tagName, VastURL: vastURL}, true
}
