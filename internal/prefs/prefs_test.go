package prefs

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/meur/battlebuddy/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_PersistsToStore(t *testing.T) {
	store := storagetest.Open(t)
	ctx := context.Background()

	m := New(ctx, store)
	assert.True(t, m.Bool("ads.banner_enabled", true))
	assert.Equal(t, 7, m.Int("launches", 7))
	assert.Equal(t, "fallback", m.String("session.user_id", "fallback"))

	m.SetBool("ads.banner_enabled", false)
	m.SetInt("launches", 3)
	m.SetString("session.user_id", "user-1")
	assert.Equal(t, 4, m.IncrementInt("launches"))
	assert.Equal(t, 1, m.IncrementInt("fresh"))

	reloaded := New(ctx, store)
	assert.False(t, reloaded.Bool("ads.banner_enabled", true))
	assert.Equal(t, 4, reloaded.Int("launches", 0))
	assert.Equal(t, 1, reloaded.Int("fresh", 0))
	assert.Equal(t, "user-1", reloaded.String("session.user_id", ""))
}

func TestManager_WrongTypeFallsBack(t *testing.T) {
	store := storagetest.Open(t)
	m := New(context.Background(), store)

	m.SetString("key", "not a number")
	assert.Equal(t, 9, m.Int("key", 9))
	assert.True(t, m.Bool("key", true))
	assert.Equal(t, 1, m.IncrementInt("key"))
}

type failingBackend struct {
	writes int
}

func (f *failingBackend) AllPreferences(ctx context.Context) (map[string]string, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingBackend) SetPreference(ctx context.Context, key, value string) error {
	f.writes++
	return errors.New("disk on fire")
}

func TestManager_NeverFails(t *testing.T) {
	backend := &failingBackend{}
	m := New(context.Background(), backend)

	m.SetBool("ads.banner_enabled", false)
	require.Equal(t, 1, backend.writes)
	assert.False(t, m.Bool("ads.banner_enabled", true), "cached value survives a failed write")
}

// slowBackend records writes in arrival order, holding each write briefly
type slowBackend struct {
	mu     sync.Mutex
	writes map[string][]string
}

func (b *slowBackend) AllPreferences(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func (b *slowBackend) SetPreference(ctx context.Context, key, value string) error {
	time.Sleep(time.Millisecond)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes[key] = append(b.writes[key], value)
	return nil
}

func (b *slowBackend) last(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := b.writes[key]
	return w[len(w)-1]
}

func TestManager_ConcurrentWritesPersistInCacheOrder(t *testing.T) {
	backend := &slowBackend{writes: make(map[string][]string)}
	m := New(context.Background(), backend)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.SetInt("volume", i)
		}(i)
		go func() {
			defer wg.Done()
			m.IncrementInt("launches")
		}()
	}
	wg.Wait()

	assert.Equal(t, strconv.Itoa(m.Int("volume", -1)), backend.last("volume"))
	assert.Equal(t, "20", backend.last("launches"))
	assert.Equal(t, 20, m.Int("launches", 0))
}
