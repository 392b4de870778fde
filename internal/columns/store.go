package columns

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/events"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/storage"
	"github.com/watchlist/triage/internal/validation"
)

// Store owns the visible column selection and the user presets, persisting
// both through a storage collaborator.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger
	emitter events.Emitter

	mu      sync.RWMutex
	columns []Key
	user    []Preset
}

// NewStore loads the stored selection and presets.
func NewStore(s storage.Storage, v *validation.Validator, log *slog.Logger, emitter events.Emitter) *Store {
	log = logger.OrDiscard(log)
	if v == nil {
		v = validation.New()
	}
	return &Store{
		storage: s,
		logger:  log,
		emitter: events.OrNoop(emitter),
		columns: LoadColumns(s, log),
		user:    LoadUserPresets(s, v, log),
	}
}

// Columns returns the visible columns in catalog order.
func (st *Store) Columns() []Key {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return slices.Clone(st.columns)
}

// SetColumns normalizes and persists cols, returning what is now visible.
func (st *Store) SetColumns(cols []Key) []Key {
	st.mu.Lock()
	next := Normalize(cols)
	st.columns = next
	SaveColumns(st.storage, next, st.logger)
	st.mu.Unlock()

	st.emitter.Emit(events.New(events.EventColumnsChanged, "", slices.Clone(next)))
	return slices.Clone(next)
}

// ToggleColumn shows or hides one column. Hiding the last visible column is a
// no-op.
func (st *Store) ToggleColumn(k Key) []Key {
	return st.SetColumns(Toggle(st.Columns(), k))
}

// Presets returns the built-in presets followed by the user presets.
func (st *Store) Presets() []Preset {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append(BuiltinPresets(), clonePresets(st.user)...)
}

// UserPresets returns only the user presets.
func (st *Store) UserPresets() []Preset {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return clonePresets(st.user)
}

// ActivePreset returns the id of the preset matching the visible columns, or
// CustomSelection.
func (st *Store) ActivePreset() string {
	return MatchPreset(st.Presets(), st.Columns())
}

// SavePreset stores the given columns under label, replacing any user preset
// with the same derived id. The new preset moves to the end of the list.
func (st *Store) SavePreset(label string, cols []Key) Preset {
	label = strings.TrimSpace(label)
	id := PresetIDFromLabel(label)
	if label == "" {
		label = "Preset"
	}
	preset := Preset{ID: id, Label: label, Columns: Normalize(cols)}

	st.mu.Lock()
	next := slices.DeleteFunc(clonePresets(st.user), func(p Preset) bool { return p.ID == id })
	next = append(next, preset)
	st.user = next
	SaveUserPresets(st.storage, next, st.logger)
	st.mu.Unlock()

	st.emitter.Emit(events.New(events.EventPresetsChanged, "", id))
	return preset
}

// DeletePreset removes a user preset. Built-in ids are refused with a
// validation error and unknown ids with not found. When the deleted preset was
// the active one the selection falls back to all columns.
func (st *Store) DeletePreset(id string) error {
	if !IsUserPreset(id) {
		return domainerrors.Validationf("preset %q cannot be deleted", id)
	}

	st.mu.Lock()
	idx := slices.IndexFunc(st.user, func(p Preset) bool { return p.ID == id })
	if idx < 0 {
		st.mu.Unlock()
		return domainerrors.NotFoundf("preset %q not found", id)
	}
	wasActive := MatchPreset(append(BuiltinPresets(), st.user...), st.columns) == id
	next := slices.Delete(clonePresets(st.user), idx, idx+1)
	st.user = next
	SaveUserPresets(st.storage, next, st.logger)
	st.mu.Unlock()

	st.emitter.Emit(events.New(events.EventPresetsChanged, "", id))
	if wasActive {
		st.SetColumns(Catalog())
	}
	return nil
}

// ApplyPreset makes the preset's columns visible.
func (st *Store) ApplyPreset(id string) ([]Key, error) {
	for _, p := range st.Presets() {
		if p.ID == id {
			return st.SetColumns(p.Columns), nil
		}
	}
	return nil, domainerrors.NotFoundf("preset %q not found", id)
}

func clonePresets(in []Preset) []Preset {
	out := make([]Preset, len(in))
	for i, p := range in {
		p.Columns = slices.Clone(p.Columns)
		out[i] = p
	}
	return out
}
