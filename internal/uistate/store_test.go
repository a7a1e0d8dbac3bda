package uistate

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(zerolog.Nop())
	assert.Equal(t, State{SidebarOpen: true, SearchOpen: false}, s.Snapshot())
}

func TestStore_Setters(t *testing.T) {
	s := NewStore(zerolog.Nop())

	s.ToggleSidebar()
	assert.False(t, s.SidebarOpen())
	s.ToggleSidebar()
	assert.True(t, s.SidebarOpen())

	s.SetSidebarOpen(false)
	assert.False(t, s.SidebarOpen())

	s.SetSearchOpen(true)
	assert.True(t, s.SearchOpen())
	assert.False(t, s.SidebarOpen())
}

func TestStore_NotifiesOnlyOnChange(t *testing.T) {
	s := NewStore(zerolog.Nop())

	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	s.SetSidebarOpen(true)
	s.SetSearchOpen(false)
	assert.Empty(t, got)

	s.SetSearchOpen(true)
	s.SetSearchOpen(true)
	s.ToggleSidebar()
	assert.Equal(t, []State{
		{SidebarOpen: true, SearchOpen: true},
		{SidebarOpen: false, SearchOpen: true},
	}, got)

	unsubscribe()
	s.ToggleSidebar()
	assert.Len(t, got, 2)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := NewStore(zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleSidebar()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.True(t, s.SidebarOpen())
}
