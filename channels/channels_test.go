package channels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestParse_URLShapes verifies each supported URL shape yields the expected
// kind and extracted value.
func TestParse_URLShapes(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		kind  Kind
		value string
	}{
		{"canonical channel", "https://www.youtube.com/channel/UC123abc_-", KindChannelID, "UC123abc_-"},
		{"handle URL", "https://www.youtube.com/@SomeCreator", KindHandle, "SomeCreator"},
		{"bare handle", "@veritasium", KindHandle, "veritasium"},
		{"handle with dots", "https://youtube.com/@some.creator_99", KindHandle, "some.creator_99"},
		{"custom name", "https://www.youtube.com/c/TEDEd", KindCustom, "TEDEd"},
		{"legacy user", "https://www.youtube.com/user/oldschool", KindUser, "oldschool"},
		{"channel with trailing path", "https://www.youtube.com/channel/UCabc/videos", KindChannelID, "UCabc"},
		{"custom with query", "https://www.youtube.com/c/TEDEd?sub_confirmation=1", KindCustom, "TEDEd"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			refs, err := Parse(strings.NewReader(tc.line), nil)
			require.NoError(t, err)
			require.Len(t, refs, 1)
			assert.Equal(t, tc.kind, refs[0].Kind)
			assert.Equal(t, tc.value, refs[0].Value)
			assert.Equal(t, tc.line, refs[0].Raw)
		})
	}
}

// TestParse_SkipsCommentsAndBlanks verifies comment and blank lines produce
// no references.
func TestParse_SkipsCommentsAndBlanks(t *testing.T) {
	input := strings.Join([]string{
		"# subscribed channels",
		"",
		"   ",
		"  # indented comment",
		"https://www.youtube.com/channel/UCabc",
		"",
	}, "\n")

	refs, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "UCabc", refs[0].Value)
}

// TestParse_PreservesOrder verifies references come back in file order.
func TestParse_PreservesOrder(t *testing.T) {
	input := strings.Join([]string{
		"https://www.youtube.com/@second",
		"https://www.youtube.com/channel/UCfirst",
		"https://www.youtube.com/user/third",
	}, "\n")

	refs, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "second", refs[0].Value)
	assert.Equal(t, "UCfirst", refs[1].Value)
	assert.Equal(t, "third", refs[2].Value)
}

// TestParse_UnmatchedLineWarnsAndContinues verifies partial-success handling
// of lines that match no URL shape.
func TestParse_UnmatchedLineWarnsAndContinues(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	input := strings.Join([]string{
		"https://example.com/not-a-channel",
		"https://www.youtube.com/channel/UCabc",
	}, "\n")

	refs, err := Parse(strings.NewReader(input), zap.New(core))
	require.NoError(t, err)
	require.Len(t, refs, 1, "unmatched line should be skipped, not fatal")
	assert.Equal(t, "UCabc", refs[0].Value)

	warnings := logs.FilterMessage("unrecognized channel reference").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(1), warnings[0].ContextMap()["line"])
	assert.Equal(t, "https://example.com/not-a-channel", warnings[0].ContextMap()["text"])
}

// TestParse_Canonical verifies only the /channel/ form is canonical.
func TestParse_Canonical(t *testing.T) {
	input := strings.Join([]string{
		"https://www.youtube.com/channel/UCabc",
		"https://www.youtube.com/@handle",
		"https://www.youtube.com/c/custom",
		"https://www.youtube.com/user/name",
	}, "\n")

	refs, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, refs, 4)
	assert.True(t, refs[0].Canonical())
	assert.False(t, refs[1].Canonical())
	assert.False(t, refs[2].Canonical())
	assert.False(t, refs[3].Canonical())
}

// TestParse_Empty verifies an empty list yields no references and no error.
func TestParse_Empty(t *testing.T) {
	refs, err := Parse(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

// TestLoad verifies reading the list from a file.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.txt")
	content := "# comment\nhttps://www.youtube.com/channel/UCabc\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	refs, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "UCabc", refs[0].Value)
}

// TestLoad_MissingFile verifies a missing channel list is an error.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open channel list")
}

// TestKind_String covers the kind labels used in logs.
func TestKind_String(t *testing.T) {
	assert.Equal(t, "channel_id", KindChannelID.String())
	assert.Equal(t, "handle", KindHandle.String())
	assert.Equal(t, "custom", KindCustom.String())
	assert.Equal(t, "user", KindUser.String())
}
