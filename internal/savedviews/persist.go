package savedviews

import (
	"encoding/json"
	"log/slog"

	"github.com/watchlist/triage/internal/query"
	"github.com/watchlist/triage/internal/storage"
	"github.com/watchlist/triage/internal/validation"
)

// viewRecord is the persisted shape of a saved view, checked before use.
type viewRecord struct {
	ID        *string         `json:"id" validate:"required"`
	Name      *string         `json:"name" validate:"required"`
	RouteMode query.RouteMode `json:"route_mode" validate:"oneof=all favorites"`
	Query     *Filters        `json:"query" validate:"required"`
}

// searchRecord is the persisted shape of a watched search. MaxPrice stays raw
// so a missing field can be told apart from an explicit null.
type searchRecord struct {
	ID           *string         `json:"id" validate:"required"`
	Name         *string         `json:"name" validate:"required"`
	Q            *string         `json:"q" validate:"required"`
	MainCategory []string        `json:"main_category" validate:"required"`
	Category     []string        `json:"category" validate:"required"`
	MaxPrice     json.RawMessage `json:"max_price" validate:"required"`
}

// LoadViews reads saved views, dropping invalid entries individually.
func LoadViews(s storage.Storage, v *validation.Validator, log *slog.Logger) []SavedView {
	out := []SavedView{}
	for i, entry := range loadArray(s, storage.KeySavedViews, log) {
		var rec viewRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			logDropped(log, "saved view", i, err)
			continue
		}
		if err := v.Validate(rec); err != nil {
			logDropped(log, "saved view", i, err)
			continue
		}
		out = append(out, SavedView{
			ID:        *rec.ID,
			Name:      *rec.Name,
			RouteMode: rec.RouteMode,
			Query:     *rec.Query,
		})
	}
	return out
}

// SaveViews writes views as a JSON array.
func SaveViews(s storage.Storage, views []SavedView, log *slog.Logger) bool {
	return saveArray(s, storage.KeySavedViews, views, log)
}

// LoadSearches reads watched searches, dropping invalid entries individually.
func LoadSearches(s storage.Storage, v *validation.Validator, log *slog.Logger) []WatchedSearch {
	out := []WatchedSearch{}
	for i, entry := range loadArray(s, storage.KeyWatchedSearches, log) {
		var rec searchRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			logDropped(log, "watched search", i, err)
			continue
		}
		if err := v.Validate(rec); err != nil {
			logDropped(log, "watched search", i, err)
			continue
		}
		var maxPrice *string
		if err := json.Unmarshal(rec.MaxPrice, &maxPrice); err != nil {
			logDropped(log, "watched search", i, err)
			continue
		}
		out = append(out, WatchedSearch{
			ID:           *rec.ID,
			Name:         *rec.Name,
			Q:            *rec.Q,
			MainCategory: rec.MainCategory,
			Category:     rec.Category,
			MaxPrice:     maxPrice,
		})
	}
	return out
}

// SaveSearches writes searches as a JSON array.
func SaveSearches(s storage.Storage, searches []WatchedSearch, log *slog.Logger) bool {
	return saveArray(s, storage.KeyWatchedSearches, searches, log)
}

func loadArray(s storage.Storage, key string, log *slog.Logger) []json.RawMessage {
	raw, ok := storage.Read(s, key, log)
	if !ok || raw == "" {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

func saveArray(s storage.Storage, key string, value any, log *slog.Logger) bool {
	data, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return storage.Write(s, key, string(data), log)
}

func logDropped(log *slog.Logger, kind string, index int, err error) {
	if log == nil {
		return
	}
	log.Debug("dropping invalid "+kind, "index", index, "error", err)
}
