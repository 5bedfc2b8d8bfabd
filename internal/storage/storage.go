// Package storage defines the Storage interface — a contract that any
// backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care where the records live.
// By depending only on this interface:
//
//   - Switching backends = implement the interface for the new one,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass any value that satisfies the interface.
//     The in-memory implementation doubles as its own test fixture.
//
// This is the Dependency Inversion Principle in practice.
package storage

import (
	"errors"

	"demos-api/internal/types"
)

// ErrDemoNotFound is the sentinel returned when a requested id has no
// stored record. It plays the same role sql.ErrNoRows plays for
// database/sql: "nothing matched" is a representable absence, not a
// backend fault. Handlers test for it with errors.Is and translate it
// into a 404 — every other error is a 500.
var ErrDemoNotFound = errors.New("demo not found")

// Storage is the record-store contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// GetDemos returns every demo currently stored. Iteration order is
	// not meaningful — callers must not assume insertion order.
	// Returns an empty slice (not nil) when there are no demos.
	GetDemos() ([]types.Demo, error)

	// GetDemoByID fetches a single demo by id.
	// Returns ErrDemoNotFound when no record has that id.
	GetDemoByID(id int64) (types.Demo, error)

	// SaveDemo inserts or overwrites a demo. When demo.ID is zero the
	// store assigns the next id from its monotonically increasing
	// counter (first assigned id = 1); otherwise the supplied id is
	// kept. Returns the stored record with its id populated.
	SaveDemo(demo types.Demo) (types.Demo, error)

	// SaveDemoAge sets the age of the demo stored under id and returns
	// the updated record. Returns ErrDemoNotFound when no record has
	// that id; the patch never creates a record.
	SaveDemoAge(id int64, patch types.DemoAgePatch) (types.Demo, error)
}
