package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/ncac/pkg/form"
)

func TestManager(t *testing.T) {
	t.Run("should return a created session by id", func(t *testing.T) {
		m := NewManager(form.NCChain, nil, nil, 4, time.Hour)
		s := m.Create()
		got, err := m.Get(s.ID)
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	t.Run("should report unknown ids", func(t *testing.T) {
		m := NewManager(form.NCChain, nil, nil, 4, time.Hour)
		_, err := m.Get(uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("should drop the least recently used session when full", func(t *testing.T) {
		m := NewManager(form.NCChain, nil, nil, 2, time.Hour)
		a := m.Create()
		b := m.Create()
		_, err := m.Get(a.ID)
		require.NoError(t, err)
		m.Create()

		assert.Equal(t, 2, m.Len())
		_, err = m.Get(b.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = m.Get(a.ID)
		assert.NoError(t, err)
	})

	t.Run("should delete a session", func(t *testing.T) {
		m := NewManager(form.NCChain, nil, nil, 4, time.Hour)
		s := m.Create()
		assert.True(t, m.Delete(s.ID))
		assert.False(t, m.Delete(s.ID))
		_, err := m.Get(s.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}
