package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRow_DecodesFlatWireFormat(t *testing.T) {
	raw := `{
		"item_id": "v1|1|0",
		"title": "Telecaster",
		"price": 450.5,
		"currency": "EUR",
		"bids": 3,
		"seller": "alice_shop",
		"category": "Guitars",
		"posted_at": "2026-10-01T10:00:00Z",
		"ends_at": "2026-10-08T10:00:00Z",
		"web_url": "https://example.com/itm/1",
		"hidden": false,
		"favorite": true,
		"note_text": "check neck",
		"note_created_at": "2026-10-02T09:00:00Z",
		"note_last_modified": null
	}`

	var row ItemRow
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	assert.Equal(t, "v1|1|0", row.ItemID)
	assert.Equal(t, "Telecaster", row.Title)
	assert.Equal(t, "alice_shop", row.Seller)
	assert.True(t, row.Favorite)
	require.NotNil(t, row.Note.Text)
	assert.Equal(t, "check neck", *row.Note.Text)
	require.NotNil(t, row.Note.CreatedAt)
	assert.Equal(t, time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC), row.Note.CreatedAt.UTC())
	assert.Nil(t, row.Note.ModifiedAt)
	assert.False(t, row.Note.Empty())
}

func TestNote_Empty(t *testing.T) {
	empty := ""
	assert.True(t, Note{}.Empty())
	assert.True(t, Note{Text: &empty}.Empty())
}

func TestValues(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Values([]Suggestion{{Value: "a"}, {Value: "b", Label: "B"}}))
}
