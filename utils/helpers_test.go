package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "ao-thun-nam", GenerateSlug("Áo Thun Nam"))
	assert.Equal(t, "cafe-creme", GenerateSlug("Café  Crème!"))
	assert.Equal(t, "abc-123", GenerateSlug("--ABC 123--"))
	assert.Equal(t, "", GenerateSlug("!!!"))
}

func TestMergeImageUrls(t *testing.T) {
	old := []string{"a", "b", "c"}
	merged := MergeImageUrls(old, []string{"b"}, []string{"d", "a"})
	assert.Equal(t, []string{"a", "c", "d"}, merged)
}

func TestIntersectStrings(t *testing.T) {
	assert.Equal(t, []string{"b"}, IntersectStrings([]string{"a", "b"}, []string{"b", "c"}))
	assert.Empty(t, IntersectStrings([]string{"a"}, nil))
}

func TestStringsToObjectIDs(t *testing.T) {
	ids, err := StringsToObjectIDs([]string{"64b4c7e8f1a2b3c4d5e6f708"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = StringsToObjectIDs([]string{"not-an-id"})
	assert.Error(t, err)
}

func TestParseBoolQuery(t *testing.T) {
	b, err := ParseBoolQuery("")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBoolQuery("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	_, err = ParseBoolQuery("maybe")
	assert.Error(t, err)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 42, ParseIntDefault("42", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
}
