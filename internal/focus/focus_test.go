package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemsEmpty(t *testing.T) {
	items, err := ParseItems("")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items, err = ParseItems("[]")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestParseItems(t *testing.T) {
	raw := `[{"id":"f1","text":"Ship release","status":"green"},{"id":"f2","text":"Hiring plan","status":"red"}]`
	items, err := ParseItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "f1", items[0].ID)
	assert.Equal(t, StatusGreen, items[0].Status)
	assert.Equal(t, "Hiring plan", items[1].Text)
	assert.Equal(t, StatusRed, items[1].Status)
}

func TestParseItemsDefaultsMissingStatus(t *testing.T) {
	items, err := ParseItems(`[{"id":"f1","text":"No status yet"}]`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusNone, items[0].Status)
}

func TestParseItemsRejectsUnknownStatus(t *testing.T) {
	_, err := ParseItems(`[{"id":"f1","text":"x","status":"purple"}]`)
	assert.Error(t, err)
}

func TestParseItemsRejectsMalformedJSON(t *testing.T) {
	_, err := ParseItems(`[{"id":`)
	assert.Error(t, err)
}

func TestEncodeItemsRoundtrip(t *testing.T) {
	in := []Item{
		{ID: "a", Text: "one", Status: StatusYellow},
		{ID: "b", Text: "two", Status: StatusNone},
	}
	raw, err := EncodeItems(in)
	require.NoError(t, err)

	out, err := ParseItems(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeItemsNil(t *testing.T) {
	raw, err := EncodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestItemStatusValid(t *testing.T) {
	for _, s := range []ItemStatus{StatusNone, StatusRed, StatusYellow, StatusGreen} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ItemStatus("blue").Valid())
	assert.False(t, ItemStatus("").Valid())
}
