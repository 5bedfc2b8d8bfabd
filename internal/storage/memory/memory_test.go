package memory

import (
	"sync"
	"testing"

	"demos-api/internal/storage"
	"demos-api/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDemo_AssignsIncreasingIDs(t *testing.T) {
	// Records arriving without an id get 1, 2, 3, … in save order.
	store := New()

	first, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)
	second, err := store.SaveDemo(types.Demo{FirstName: "Jane", LastName: "Doe", Age: 25})
	require.NoError(t, err)
	third, err := store.SaveDemo(types.Demo{FirstName: "Jim", LastName: "Doe", Age: 30})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)
}

func TestSaveDemo_ReturnsStoredRecord(t *testing.T) {
	store := New()

	saved, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)

	fetched, err := store.GetDemoByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, fetched)
	assert.Equal(t, "John", fetched.FirstName)
	assert.Equal(t, "Doe", fetched.LastName)
	assert.Equal(t, 20, fetched.Age)
}

func TestSaveDemo_KeepsCallerSuppliedID(t *testing.T) {
	// A record that arrives with a non-zero id is stored under that id,
	// and the id counter is not consumed by it.
	store := New()

	keyed, err := store.SaveDemo(types.Demo{ID: 7, FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(7), keyed.ID)

	// The next auto-assigned id is still 1.
	auto, err := store.SaveDemo(types.Demo{FirstName: "Jane", LastName: "Doe", Age: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(1), auto.ID)
}

func TestSaveDemo_OverwritesExistingID(t *testing.T) {
	// Saving under an occupied id replaces the record, it does not grow
	// the store.
	store := New()

	saved, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)

	updated, err := store.SaveDemo(types.Demo{ID: saved.ID, FirstName: "Johnny", LastName: "Doe", Age: 21})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	fetched, err := store.GetDemoByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", fetched.FirstName)
	assert.Equal(t, 21, fetched.Age)

	all, err := store.GetDemos()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetDemoByID_NotFound(t *testing.T) {
	store := New()

	_, err := store.GetDemoByID(42)
	require.ErrorIs(t, err, storage.ErrDemoNotFound)

	// id 0 is never assigned, so it is a miss like any other.
	_, err = store.GetDemoByID(0)
	require.ErrorIs(t, err, storage.ErrDemoNotFound)
}

func TestGetDemos_EmptyStoreReturnsEmptySlice(t *testing.T) {
	// An empty store yields [] — non-nil, so it encodes as a JSON array
	// rather than null.
	store := New()

	demos, err := store.GetDemos()
	require.NoError(t, err)
	require.NotNil(t, demos)
	assert.Empty(t, demos)
}

func TestGetDemos_ReturnsAllRecords(t *testing.T) {
	store := New()

	first, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)
	second, err := store.SaveDemo(types.Demo{FirstName: "Jane", LastName: "Doe", Age: 25})
	require.NoError(t, err)

	demos, err := store.GetDemos()
	require.NoError(t, err)
	// Order is unspecified, so compare as sets.
	assert.ElementsMatch(t, []types.Demo{first, second}, demos)
}

func TestGetDemos_SnapshotIsolation(t *testing.T) {
	// The returned slice is a copy of the state at call time; later
	// writes must not leak into it.
	store := New()

	_, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)

	snapshot, err := store.GetDemos()
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	_, err = store.SaveDemo(types.Demo{FirstName: "Jane", LastName: "Doe", Age: 25})
	require.NoError(t, err)

	assert.Len(t, snapshot, 1)
}

func TestSaveDemoAge_UpdatesOnlyAge(t *testing.T) {
	store := New()

	saved, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
	require.NoError(t, err)

	updated, err := store.SaveDemoAge(saved.ID, types.DemoAgePatch{Age: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Age)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "John", updated.FirstName)
	assert.Equal(t, "Doe", updated.LastName)

	fetched, err := store.GetDemoByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, fetched)
}

func TestSaveDemoAge_NotFound(t *testing.T) {
	// The age patch never creates a record.
	store := New()

	_, err := store.SaveDemoAge(42, types.DemoAgePatch{Age: 30})
	require.ErrorIs(t, err, storage.ErrDemoNotFound)

	demos, err := store.GetDemos()
	require.NoError(t, err)
	assert.Empty(t, demos)
}

func TestSaveDemo_ConcurrentAutoIDsAreUnique(t *testing.T) {
	// N goroutines saving at once must end up with N distinct records
	// under ids 1..N — no id handed out twice, no record lost.
	const n = 100

	store := New()

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := store.SaveDemo(types.Demo{FirstName: "John", LastName: "Doe", Age: 20})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	demos, err := store.GetDemos()
	require.NoError(t, err)
	require.Len(t, demos, n)

	seen := make(map[int64]bool, n)
	for _, d := range demos {
		assert.False(t, seen[d.ID], "id %d assigned twice", d.ID)
		assert.GreaterOrEqual(t, d.ID, int64(1))
		assert.LessOrEqual(t, d.ID, int64(n))
		seen[d.ID] = true
	}
}
