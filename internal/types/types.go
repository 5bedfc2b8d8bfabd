// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Demo represents a person record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (camelCase names match REST API conventions).
//     Without this tag Go uses the exported field name, e.g. "FirstName".
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
//
// ID carries no validate tag on purpose: the store assigns it on first
// save, so a brand-new Demo legitimately arrives with ID == 0. Assigned
// ids start at 1, which makes the zero value an unambiguous "not yet
// saved" marker, the value-typed stand-in for a nullable id.
type Demo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Age       int    `json:"age"       validate:"required"`
}

// DemoAgePatch is the payload of the typed PATCH variant: a partial
// update that may only touch the age field. It carries no identity of
// its own — the target Demo is named by the request path.
//
// "gte=18" is the business rule on the typed patch: an age supplied
// through this route must be at least 18. The other two patch protocols
// (merge patch, JSON patch) are generic documents and do not share this
// constraint.
type DemoAgePatch struct {
	Age int `json:"age" validate:"required,gte=18"`
}
