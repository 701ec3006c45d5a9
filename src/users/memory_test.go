package users

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetByIDUnknown(t *testing.T) {
	registry := NewMemory()

	_, err := registry.GetByID("ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetOrCreateDefault(t *testing.T) {
	registry := NewMemory()

	user := registry.GetOrCreateDefault("alice")
	assert.Equal(t, uint32(0), user.RankPoints)
	assert.Nil(t, user.ProjectID)

	// Subsequent calls return the stored profile
	registry.Set("alice", User{RankPoints: 5})

	again := registry.GetOrCreateDefault("alice")
	assert.Equal(t, uint32(5), again.RankPoints)
}

func TestAssignProjectKeepsRank(t *testing.T) {
	registry := NewMemory()

	registry.Set("alice", User{RankPoints: 3})
	registry.AssignProject("alice", 7)

	user, err := registry.GetByID("alice")
	assert.Nil(t, err)
	assert.Equal(t, uint32(3), user.RankPoints)
	assert.Equal(t, uint32(7), *user.ProjectID)

	// And the bump keeps the backlink
	bumped := registry.IncrementRank("alice")
	assert.Equal(t, uint32(4), bumped.RankPoints)
	assert.Equal(t, uint32(7), *bumped.ProjectID)
}

func TestIncrementRankConcurrent(t *testing.T) {
	registry := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.IncrementRank("alice")
		}()
	}
	wg.Wait()

	user, err := registry.GetByID("alice")
	assert.Nil(t, err)
	assert.Equal(t, uint32(64), user.RankPoints)
}

func TestSetOverwrites(t *testing.T) {
	registry := NewMemory()

	registry.Set("alice", User{RankPoints: 3})

	user, err := registry.GetByID("alice")
	assert.Nil(t, err)
	assert.Equal(t, uint32(3), user.RankPoints)
}
