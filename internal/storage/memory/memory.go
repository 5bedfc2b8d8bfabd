// Package memory provides the in-memory implementation of the
// storage.Storage interface: a mutex-guarded map plus an id counter.
//
// WHY IN-MEMORY?
// ──────────────
// This service is not a persistence engine. Records live exactly as
// long as the process does, there is nothing to connect to and nothing
// to migrate. What the store DOES promise is correctness under
// concurrent requests: every method takes the store's lock, so a save
// that completes before a subsequent lookup of the same id is always
// visible to it — no stale reads, no torn records.
//
// HOW THE LOCKING WORKS:
// ──────────────────────
// A plain map[int64]types.Demo is NOT safe for concurrent use; Go's
// runtime will crash the process on a concurrent map read/write. Every
// method therefore brackets its map access with the RWMutex:
//
//	m.mu.Lock()         // writers: exclusive access
//	defer m.mu.Unlock() // released when the method returns, even on panic
//
// Readers take RLock instead, which lets any number of GETs proceed in
// parallel while still excluding writers. The id counter is bumped
// inside the same critical section as the map write, so an assigned id
// can never be observed without its record.
package memory

import (
	"sync"

	"demos-api/internal/storage"
	"demos-api/internal/types"
)

// Memory is the concrete implementation of storage.Storage.
// The zero value is not usable — construct it with New so the map is
// allocated. Demos are stored BY VALUE: the map copy is the authority,
// and every record handed back to a caller is another copy, so no
// caller can mutate store state behind the lock's back.
type Memory struct {
	mu     sync.RWMutex
	lastID int64
	demos  map[int64]types.Demo
}

// New returns an empty, ready-to-use store. The first id it assigns is
// 1 (the counter is pre-increment, like AUTOINCREMENT keys), and ids
// are never reused for the lifetime of the store.
func New() *Memory {
	return &Memory{
		demos: make(map[int64]types.Demo),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetDemos returns a snapshot of every stored demo.
//
// The returned slice is freshly allocated on every call — callers get a
// copy of the state, not a window into it. Map iteration order in Go is
// deliberately randomized, so the order of the result carries no
// meaning; anyone who needs an order must sort.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Memory) GetDemos() ([]types.Demo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	demos := make([]types.Demo, 0, len(m.demos))
	for _, demo := range m.demos {
		demos = append(demos, demo)
	}

	return demos, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetDemoByID fetches exactly one demo by its id.
//
// A miss is not a fault: it comes back as storage.ErrDemoNotFound, the
// sentinel the handler layer turns into a 404. There is no other way
// for this method to fail.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Memory) GetDemoByID(id int64) (types.Demo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	demo, ok := m.demos[id]
	if !ok {
		return types.Demo{}, storage.ErrDemoNotFound
	}

	return demo, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SaveDemo inserts or overwrites a demo record.
//
// Two cases, decided by the id the caller supplies:
//
//   - demo.ID == 0 — a brand-new record. The store assigns the next
//     counter value (1, 2, 3, …) and stores under it. The counter only
//     ever moves forward, so assigned ids are strictly increasing and
//     never handed out twice.
//
//   - demo.ID != 0 — the caller names the key. The record is stored
//     under that id, overwriting whatever was there (last writer wins).
//     The counter is NOT consumed — re-saving id 7 does not burn id 8.
//
// Either way the stored record is returned with its id populated.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Memory) SaveDemo(demo types.Demo) (types.Demo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if demo.ID == 0 {
		m.lastID++
		demo.ID = m.lastID
	}
	m.demos[demo.ID] = demo

	return demo, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SaveDemoAge applies the typed age patch to an existing record.
//
// Look up, mutate the copy, write it back — all under one lock, so two
// concurrent age patches on the same id serialize cleanly instead of
// interleaving a read-modify-write. The patch never creates a record:
// an unknown id is ErrDemoNotFound, exactly like a GET miss.
// ─────────────────────────────────────────────────────────────────────────────
func (m *Memory) SaveDemoAge(id int64, patch types.DemoAgePatch) (types.Demo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	demo, ok := m.demos[id]
	if !ok {
		return types.Demo{}, storage.ErrDemoNotFound
	}

	demo.Age = patch.Age
	m.demos[id] = demo

	return demo, nil
}
