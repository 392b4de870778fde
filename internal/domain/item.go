// Package domain holds the listing types exchanged with the listings API.
package domain

import "time"

// Listing is the read-only display part of an item. A refresh replaces it
// wholesale.
type Listing struct {
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Bids     int     `json:"bids"`
	Seller   string  `json:"seller"`
	Category string  `json:"category"`
	PostedAt string  `json:"posted_at"`
	EndsAt   string  `json:"ends_at"`
	EndsIn   string  `json:"ends_in,omitempty"`
	WebURL   string  `json:"web_url"`
}

// Note is the user's annotation on an item. All three fields are nil when the
// item has no note.
type Note struct {
	Text       *string    `json:"note_text"`
	CreatedAt  *time.Time `json:"note_created_at"`
	ModifiedAt *time.Time `json:"note_last_modified"`
}

// Empty reports whether the note carries no text.
func (n Note) Empty() bool {
	return n.Text == nil || *n.Text == ""
}

// ItemRow is one listing as returned by the items endpoint. The identity is
// stable across refreshes.
type ItemRow struct {
	ItemID string `json:"item_id"`
	Listing
	Hidden   bool `json:"hidden"`
	Favorite bool `json:"favorite"`
	Note
}

// ResultSet is one page of items.
type ResultSet struct {
	Items      []ItemRow `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	HasNext    bool      `json:"has_next"`
	HasPrev    bool      `json:"has_prev"`
	Sort       string    `json:"sort"`
}

// NoteResult is the authoritative note returned after a note update.
type NoteResult struct {
	ItemID string `json:"item_id"`
	Note
}

// Suggestion is one autocomplete option for a tag filter.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SuggestionsResponse wraps the suggestion endpoints' payload.
type SuggestionsResponse struct {
	Items []Suggestion `json:"items"`
}

// Values returns the suggestion values in order.
func Values(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Value
	}
	return out
}
