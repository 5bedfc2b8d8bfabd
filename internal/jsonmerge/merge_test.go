package jsonmerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// applyMerge decodes both documents, merges, and re-encodes the result.
// Each call decodes fresh trees because Merge consumes its target.
func applyMerge(t *testing.T, target, patch string) string {
	t.Helper()

	targetNode, err := Decode([]byte(target))
	require.NoError(t, err)
	patchNode, err := Decode([]byte(patch))
	require.NoError(t, err)

	out, err := Encode(Merge(targetNode, patchNode))
	require.NoError(t, err)
	return string(out)
}

// The example table from RFC 7386, Appendix A — every row of it.
func TestMerge_RFC7386AppendixA(t *testing.T) {
	tests := []struct {
		target string
		patch  string
		want   string
	}{
		{`{"a":"b"}`, `{"a":"c"}`, `{"a":"c"}`},
		{`{"a":"b"}`, `{"b":"c"}`, `{"a":"b","b":"c"}`},
		{`{"a":"b"}`, `{"a":null}`, `{}`},
		{`{"a":"b","b":"c"}`, `{"a":null}`, `{"b":"c"}`},
		{`{"a":["b"]}`, `{"a":"c"}`, `{"a":"c"}`},
		{`{"a":"c"}`, `{"a":["b"]}`, `{"a":["b"]}`},
		{`{"a":{"b":"c"}}`, `{"a":{"b":"d","c":null}}`, `{"a":{"b":"d"}}`},
		{`{"a":[{"b":"c"}]}`, `{"a":[1]}`, `{"a":[1]}`},
		{`["a","b"]`, `["c","d"]`, `["c","d"]`},
		{`{"a":"b"}`, `["c"]`, `["c"]`},
		{`{"a":"foo"}`, `null`, `null`},
		{`{"a":"foo"}`, `"bar"`, `"bar"`},
		{`{"e":null}`, `{"a":1}`, `{"e":null,"a":1}`},
		{`[1,2]`, `{"a":"b","c":null}`, `{"a":"b"}`},
		{`{}`, `{"a":{"bb":{"ccc":null}}}`, `{"a":{"bb":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.target+"+"+tt.patch, func(t *testing.T) {
			got := applyMerge(t, tt.target, tt.patch)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestMerge_EmptyPatchIsIdentity(t *testing.T) {
	// {} changes nothing, whatever the target looks like.
	target := `{"id":1,"firstName":"John","lastName":"Doe","age":20}`
	got := applyMerge(t, target, `{}`)
	assert.JSONEq(t, target, got)
}

func TestMerge_UntouchedMembersSurvive(t *testing.T) {
	// Only members named by the patch change; siblings at every level
	// stay as they were.
	got := applyMerge(t,
		`{"a":{"x":1,"y":2},"b":"keep"}`,
		`{"a":{"y":3}}`)
	assert.JSONEq(t, `{"a":{"x":1,"y":3},"b":"keep"}`, got)
}

func TestMerge_ArrayReplacedWholesale(t *testing.T) {
	// Arrays are atomic: no element-wise merge, the patch's array wins.
	got := applyMerge(t,
		`{"tags":["a","b","c"]}`,
		`{"tags":["z"]}`)
	assert.JSONEq(t, `{"tags":["z"]}`, got)
}

func TestMerge_HandBuiltPatch(t *testing.T) {
	// Patches assembled with the constructors behave like decoded ones.
	target, err := Decode([]byte(`{"firstName":"John","lastName":"Doe","age":20}`))
	require.NoError(t, err)

	patch := Object(map[string]*Node{
		"age":      FromInt(30),
		"lastName": Null(),
		"nick":     FromString("J"),
	})

	out, err := Encode(Merge(target, patch))
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"John","age":30,"nick":"J"}`, string(out))
}

func TestMerge_NilPatchMemberRemovesLikeNull(t *testing.T) {
	// A nil entry in a hand-built patch map is treated as an explicit
	// JSON null: it removes the member.
	target, err := Decode([]byte(`{"a":1,"b":2}`))
	require.NoError(t, err)

	patch := &Node{Type: ObjectType, Fields: map[string]*Node{"a": nil}}

	out, err := Encode(Merge(target, patch))
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(out))
}
