package adtags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMultipleBlocks(t *testing.T) {
	content := `
Brand_Summer_CTV_CTV

https://ads.example.com/vast?pubid=164208&devicetype=3
--------
Brand_Summer_Mobile_AOS
https://ads.example.com/vast?pubid=164208&storeurl=[STOREURL]
`

	entries := Parse("tags_ctv.txt", content)
	require.Len(t, entries, 2)

	assert.Equal(t, "Brand_Summer_CTV_CTV", entries[0].TagName)
	assert.Equal(t, "https://ads.example.com/vast?pubid=164208&devicetype=3", entries[0].VastURL)
	assert.Equal(t, "tags_ctv.txt", entries[0].Filename)

	assert.Equal(t, "Brand_Summer_Mobile_AOS", entries[1].TagName)
	assert.Equal(t, "https://ads.example.com/vast?pubid=164208&storeurl=[STOREURL]", entries[1].VastURL)
}

func TestParseNoSeparators(t *testing.T) {
	content := "Single_Tag\nhttps://ads.example.com/vast"

	entries := Parse("tags.txt", content)
	require.Len(t, entries, 1)
	assert.Equal(t, "Single_Tag", entries[0].TagName)
}

func TestParseBlockWithoutURL(t *testing.T) {
	content := "Tag_Without_URL\nsome descriptive text, no link here\n-------\nTag_With_URL\nhttps://ads.example.com/vast"

	entries := Parse("tags.txt", content)
	require.Len(t, entries, 2)
	assert.Equal(t, MissingURL, entries[0].VastURL, "a block with a name but no https token must still produce an entry")
	assert.Equal(t, "https://ads.example.com/vast", entries[1].VastURL)
}

func TestParseSeparatorNeedsFiveDashes(t *testing.T) {
	content := "Tag_A\nhttps://a.example.com\n----\nstill part of the same block"

	entries := Parse("tags.txt", content)
	require.Len(t, entries, 1, "four dashes is not a separator")
}

func TestParseEmptyBlocksDropped(t *testing.T) {
	content := "-----\n\n-----\nTag_A\nhttps://a.example.com\n-----\n"

	entries := Parse("tags.txt", content)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tag_A", entries[0].TagName)
}
