package value

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        any
		b        any
		expected bool
	}{
		{"Both nil", nil, nil, true},
		{"Nil map and nil", map[string]any(nil), nil, true},
		{"Nil and empty map", nil, map[string]any{}, false},
		{"Empty maps", map[string]any{}, map[string]any{}, true},
		{"Same scalars", "error", "error", true},
		{"Different strings", "warn", "error", false},
		{"Int and float", 2, 2.0, true},
		{"Json number and int", json.Number("2"), 2, true},
		{"Json number and string", json.Number("2"), "2", false},
		{"Bool and string", true, "true", false},
		{"Map key order", map[string]any{"a": 1, "b": 2}, map[string]any{"b": 2, "a": 1}, true},
		{"Map extra key", map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}, false},
		{"Sequence order matters", []any{"a", "b"}, []any{"b", "a"}, false},
		{"Typed and untyped slices", []string{"a", "b"}, []any{"a", "b"}, true},
		{"Nested", map[string]any{"x": []any{map[string]any{"y": 1}}}, map[string]any{"x": []any{map[string]any{"y": 1.0}}}, true},
		{"Nested difference", map[string]any{"x": []any{map[string]any{"y": 1}}}, map[string]any{"x": []any{map[string]any{"y": 2}}}, false},
		{"Sequence length", []any{1}, []any{1, 2}, false},
		{"Nil element vs missing", []any{nil}, []any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq, err := Equal(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eq)

			reverse, err := Equal(tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, reverse, "equality must be symmetric")
		})
	}
}

func TestEqual_Reflexive(t *testing.T) {
	tree, err := Decode([]byte(`{"rules":{"semi":["error","always"]},"globals":{"window":"readonly"},"n":[1,2.5,null,true]}`))
	require.NoError(t, err)

	eq, err := Equal(tree, tree)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqual_Cyclic(t *testing.T) {
	cyclic := map[string]any{"name": "loop"}
	cyclic["self"] = cyclic
	other := map[string]any{"name": "loop", "self": map[string]any{"name": "loop"}}

	_, err := Equal(cyclic, other)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclic))

	seq := []any{nil}
	seq[0] = seq
	_, err = Equal(seq, []any{[]any{nil}})
	assert.True(t, errors.Is(err, ErrCyclic))
}

func TestEqual_SharedSubtreeIsNotCyclic(t *testing.T) {
	shared := map[string]any{"x": 1}
	a := []any{shared, shared}
	b := []any{map[string]any{"x": 1}, map[string]any{"x": 1}}

	eq, err := Equal(a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqual_Unsupported(t *testing.T) {
	_, err := Equal(map[string]any{"f": func() {}}, map[string]any{"f": func() {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = Equal(map[int]any{1: "a"}, map[int]any{1: "a"})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestEqualIgnoring(t *testing.T) {
	a := map[string]any{"filePath": "a.js", "severities": []any{map[string]any{"rule": "semi", "old": 2, "new": 1}}}
	b := map[string]any{"filePath": "b.js", "severities": []any{map[string]any{"rule": "semi", "old": 2, "new": 1}}}

	eq, err := Equal(a, b)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = EqualIgnoring(a, b, "filePath")
	require.NoError(t, err)
	assert.True(t, eq)

	onlyOneSide := map[string]any{"severities": a["severities"]}
	eq, err = EqualIgnoring(a, onlyOneSide, "filePath")
	require.NoError(t, err)
	assert.True(t, eq, "an ignored key present on one side only is still skipped")
}

func TestEqualIgnoring_SequencePaths(t *testing.T) {
	a := map[string]any{"groups": []any{map[string]any{"id": 1, "at": "monday"}}}
	b := map[string]any{"groups": []any{map[string]any{"id": 1, "at": "tuesday"}}}

	eq, err := EqualIgnoring(a, b, "groups.at")
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = EqualIgnoring(a, b, "groups[].at")
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestToTree(t *testing.T) {
	type sample struct {
		Name  string         `json:"name"`
		Count int            `json:"count"`
		Meta  map[string]int `json:"meta,omitempty"`
	}

	tree, err := ToTree(sample{Name: "semi", Count: 2})
	require.NoError(t, err)

	m, ok := tree.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "semi", m["name"])
	assert.Equal(t, json.Number("2"), m["count"])
	assert.NotContains(t, m, "meta")
}

func TestCompact(t *testing.T) {
	assert.Equal(t, `{"x":1}`, Compact(map[string]any{"x": 1}))
	assert.Equal(t, `"error"`, Compact("error"))
}
