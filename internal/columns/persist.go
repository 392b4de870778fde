package columns

import (
	"encoding/json"
	"log/slog"

	"github.com/watchlist/triage/internal/storage"
	"github.com/watchlist/triage/internal/validation"
)

// LoadColumns reads the visible columns. A missing key, invalid JSON, a
// non-array value or a storage failure all yield the default set.
func LoadColumns(s storage.Storage, log *slog.Logger) []Key {
	raw, ok := storage.Read(s, storage.KeyTableColumns, log)
	if !ok || raw == "" {
		return Default()
	}

	var values []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return Default()
	}
	return Normalize(stringValues(values))
}

// SaveColumns writes cols as a JSON array. It reports whether the write
// succeeded.
func SaveColumns(s storage.Storage, cols []Key, log *slog.Logger) bool {
	data, err := json.Marshal(cols)
	if err != nil {
		return false
	}
	return storage.Write(s, storage.KeyTableColumns, string(data), log)
}

// presetRecord is the persisted shape of a user preset. Pointers distinguish a
// missing field from an empty one.
type presetRecord struct {
	ID      *string           `json:"id" validate:"required"`
	Label   *string           `json:"label" validate:"required"`
	Columns []json.RawMessage `json:"columns" validate:"required"`
}

// LoadUserPresets reads the user presets. Entries that are not objects with a
// string id, a string label and an array of columns are dropped one by one;
// anything unreadable at the top level yields no presets.
func LoadUserPresets(s storage.Storage, v *validation.Validator, log *slog.Logger) []Preset {
	raw, ok := storage.Read(s, storage.KeyTablePresets, log)
	if !ok || raw == "" {
		return []Preset{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []Preset{}
	}

	out := make([]Preset, 0, len(entries))
	for i, entry := range entries {
		var rec presetRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			logDropped(log, i, err)
			continue
		}
		if err := v.Validate(rec); err != nil {
			logDropped(log, i, err)
			continue
		}
		out = append(out, Preset{
			ID:      *rec.ID,
			Label:   *rec.Label,
			Columns: Normalize(stringValues(rec.Columns)),
		})
	}
	return out
}

// SaveUserPresets writes presets as a JSON array.
func SaveUserPresets(s storage.Storage, presets []Preset, log *slog.Logger) bool {
	data, err := json.Marshal(presets)
	if err != nil {
		return false
	}
	return storage.Write(s, storage.KeyTablePresets, string(data), log)
}

// stringValues keeps the JSON strings of values and skips everything else.
func stringValues(values []json.RawMessage) []string {
	out := make([]string, 0, len(values))
	for _, raw := range values {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

func logDropped(log *slog.Logger, index int, err error) {
	if log == nil {
		return
	}
	log.Debug("dropping invalid column preset", "index", index, "error", err)
}
