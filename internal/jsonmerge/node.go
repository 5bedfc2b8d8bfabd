// Package jsonmerge implements the generic JSON document model and the
// RFC 7386 JSON Merge Patch algorithm used by the merge-patch handler.
//
// WHY A TAGGED TREE INSTEAD OF map[string]any?
// ────────────────────────────────────────────
// Merge patch gives null a special meaning: "remove this member". With
// untyped maps, a JSON null decodes to a Go nil that is hard to tell
// apart from "key absent", and every step of the algorithm degenerates
// into type assertions. A small sum type — one Node struct carrying a
// Type tag plus the payload for that kind — keeps every case explicit:
// the merge function is a direct transcription of the RFC's pseudocode,
// with a switch where the RFC has an "if".
package jsonmerge

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Type discriminates the six JSON value kinds a Node can hold.
type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	ArrayType
	ObjectType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		NullType:   "Null",
		BoolType:   "Bool",
		NumberType: "Number",
		StringType: "String",
		ArrayType:  "Array",
		ObjectType: "Object",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

// Node is one JSON value. Type selects which payload field is
// meaningful; the others stay at their zero value:
//
//	NullType   — no payload
//	BoolType   — Bool
//	NumberType — Number (the untouched literal, via json.Number, so
//	             1e2 stays 1e2 and 18446744073709551615 survives
//	             without a float64 detour)
//	StringType — String
//	ArrayType  — Values (element order preserved)
//	ObjectType — Fields (member order is NOT preserved; merge-patch
//	             semantics never depend on it because member names in
//	             a well-formed document are unique)
type Node struct {
	Type   Type
	Bool   bool
	Number json.Number
	String string
	Values []*Node
	Fields map[string]*Node
}

// Null returns the JSON null value.
func Null() *Node {
	return &Node{Type: NullType}
}

// FromBool wraps a bool.
func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

// FromInt wraps an integer as a JSON number.
func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Number: json.Number(strconv.FormatInt(v, 10))}
}

// FromNumber wraps an already-formatted JSON number literal.
func FromNumber(v json.Number) *Node {
	return &Node{Type: NumberType, Number: v}
}

// FromString wraps a string.
func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

// Array builds an array node from its elements.
func Array(values ...*Node) *Node {
	if values == nil {
		values = []*Node{}
	}
	return &Node{Type: ArrayType, Values: values}
}

// Object builds an object node over the given member map. The map is
// used as-is (not copied); pass nil for an empty object.
func Object(fields map[string]*Node) *Node {
	if fields == nil {
		fields = map[string]*Node{}
	}
	return &Node{Type: ObjectType, Fields: fields}
}

// ─────────────────────────────────────────────────────────────────────────────
// Decode parses a raw JSON document into a Node tree.
//
// Numbers are kept as json.Number rather than float64 — the decoder's
// UseNumber mode — so the literal text round-trips unchanged through
// a merge. Exactly one JSON value is accepted: trailing bytes after
// the document are an error, the same as encoding/json.Unmarshal.
// ─────────────────────────────────────────────────────────────────────────────
func Decode(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("jsonmerge: decode: %w", err)
	}
	if dec.More() {
		return nil, errors.New("jsonmerge: decode: trailing data after JSON document")
	}

	return fromAny(raw), nil
}

// fromAny converts the decoder's untyped output into the tagged tree.
// The decoder only ever produces the six types below, so the default
// branch is a defect trap, not a reachable state.
func fromAny(v any) *Node {
	switch v := v.(type) {
	case nil:
		return Null()
	case bool:
		return FromBool(v)
	case json.Number:
		return FromNumber(v)
	case string:
		return FromString(v)
	case []any:
		values := make([]*Node, len(v))
		for i, item := range v {
			values[i] = fromAny(item)
		}
		return &Node{Type: ArrayType, Values: values}
	case map[string]any:
		fields := make(map[string]*Node, len(v))
		for name, member := range v {
			fields[name] = fromAny(member)
		}
		return &Node{Type: ObjectType, Fields: fields}
	default:
		panic(fmt.Sprintf("jsonmerge: unexpected decoded type %T", v))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Encode renders a Node tree back to JSON bytes, the inverse of Decode.
// Object members come out in sorted-key order (the encoder's map
// behaviour), which keeps output deterministic.
// ─────────────────────────────────────────────────────────────────────────────
func Encode(n *Node) ([]byte, error) {
	return json.Marshal(n.asAny())
}

// MarshalJSON makes *Node a json.Marshaler, so trees can sit inside
// larger values handed to json.Marshal.
func (n *Node) MarshalJSON() ([]byte, error) {
	return Encode(n)
}

// asAny lowers the tree to the plain Go values the JSON encoder
// understands.
func (n *Node) asAny() any {
	switch n.Type {
	case NullType:
		return nil
	case BoolType:
		return n.Bool
	case NumberType:
		return n.Number
	case StringType:
		return n.String
	case ArrayType:
		out := make([]any, len(n.Values))
		for i, item := range n.Values {
			out[i] = item.asAny()
		}
		return out
	case ObjectType:
		out := make(map[string]any, len(n.Fields))
		for name, member := range n.Fields {
			out[name] = member.asAny()
		}
		return out
	default:
		panic(fmt.Sprintf("jsonmerge: unexpected node type %d", n.Type))
	}
}
