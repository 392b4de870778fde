package location

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watchlist/triage/internal/storage"
)

func TestStored_ResumesPerPath(t *testing.T) {
	s := storage.NewMemory()

	all := NewStored(s, "/", nil)
	favorites := NewStored(s, "/favorites", nil)
	assert.Empty(t, all.CurrentSearch())

	all.Replace("/", "?seller=alice")
	favorites.Replace("/favorites", "favorite=1&page=2")

	assert.Equal(t, "/?seller=alice", NewStored(s, "/", nil).Href())
	assert.Equal(t, "favorite=1&page=2", NewStored(s, "/favorites", nil).CurrentSearch())

	all.Replace("/", "")
	_, ok, err := s.Get(storage.KeyLastQuery + "/")
	assert.NoError(t, err)
	assert.False(t, ok, "an empty query removes the key")
	assert.Equal(t, "/", all.Href())
}

func TestStored_DefaultPath(t *testing.T) {
	assert.Equal(t, "/", NewStored(storage.NewMemory(), "", nil).Path())
}
