package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	assert.Nil(t, store.Current())
	assert.Nil(t, store.LastFetch())
	assert.False(t, store.FingerprintMatches(""))
	assert.False(t, store.FingerprintMatches("abc"))

	captured := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	snap := &models.Snapshot{
		Products:    []models.Product{{Category: "A", Code: "1", Price: 100}},
		Fingerprint: "abc",
		CapturedAt:  captured,
	}
	store.Replace(snap)

	assert.Same(t, snap, store.Current())
	assert.True(t, store.FingerprintMatches("abc"))
	assert.False(t, store.FingerprintMatches("def"))
	require.NotNil(t, store.LastFetch())
	assert.Equal(t, captured, *store.LastFetch())

	later := captured.Add(time.Minute)
	store.MarkFetched(later)
	assert.Equal(t, later, *store.LastFetch())

	store.MarkFetched(captured)
	assert.Equal(t, later, *store.LastFetch(), "last fetch never moves backwards")
}

func TestSnapshotStoreConcurrentReaders(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Replace(&models.Snapshot{
				Products:    make([]models.Product, i+1),
				Fingerprint: string(rune('a' + i)),
			})
		}(i)
		go func() {
			defer wg.Done()
			if s := store.Current(); s != nil {
				assert.Len(t, s.Products, int(s.Fingerprint[0]-'a')+1)
			}
		}()
	}
	wg.Wait()
	assert.NotNil(t, store.Current())
}
