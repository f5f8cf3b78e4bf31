package schema

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchema() *Schema {
	s := New(1) // one vertex label, edges start at id 1
	s.AddLabel(&LabelSchema{
		ID:   0,
		Name: "person",
		Columns: []Column{
			{Name: "name", DType: LongString, VLen: 64, Updatable: true},
			{Name: "age", DType: Int32, VLen: 4, Updatable: true},
		},
	})
	s.AddLabel(&LabelSchema{
		ID:   1,
		Name: "knows",
		Columns: []Column{
			{Name: "since", DType: Int64, VLen: 8, Updatable: false},
		},
	})
	s.EdgeRelation[1] = [2]int{0, 0}
	return s
}

func TestByteLayout(t *testing.T) {
	s := newTestSchema()

	assert.Equal(t, 0, s.PrefixBytes(0, 0))
	assert.Equal(t, 64, s.PrefixBytes(0, 1))
	assert.Equal(t, 68, s.TotalBytes(0))

	assert.Equal(t, 0, s.EdgePrefixBytes(1, 0))
	assert.Equal(t, 8, s.EdgeTotalBytes(1))
}

func TestIsEdgeLabel(t *testing.T) {
	s := newTestSchema()
	assert.False(t, s.IsEdgeLabel(0))
	assert.True(t, s.IsEdgeLabel(1))
}

func TestDTypeLookup(t *testing.T) {
	s := newTestSchema()
	d, ok := s.DType(0, 0)
	require.True(t, ok)
	assert.Equal(t, LongString, d)
}

func TestMarshalForRegistryCollapsesGIEStringTypes(t *testing.T) {
	s := newTestSchema()

	nonGIE, err := s.MarshalForRegistry(false)
	require.NoError(t, err)
	assert.Contains(t, string(nonGIE), `"LONGSTRING"`)

	gie, err := s.MarshalForRegistry(true)
	require.NoError(t, err)
	assert.NotContains(t, string(gie), `"LONGSTRING"`)
	assert.Contains(t, string(gie), `"STRING"`)

	var parsed jsonSchema
	require.NoError(t, json.Unmarshal(gie, &parsed))
	assert.Equal(t, 1, parsed.ElabelOffset)
}

// TestMarshalForRegistryStructure round-trips both the GIE and non-GIE
// documents and diffs the decoded shape against the expected structure
// field by field, catching any drift a string-Contains check would miss
// (a reordered column, a dropped label, a wrong edge_relation pair).
func TestMarshalForRegistryStructure(t *testing.T) {
	s := newTestSchema()

	nonGIE, err := s.MarshalForRegistry(false)
	require.NoError(t, err)
	var gotNonGIE jsonSchema
	require.NoError(t, json.Unmarshal(nonGIE, &gotNonGIE))

	wantNonGIE := jsonSchema{
		ElabelOffset: 1,
		EdgeRelation: map[string][2]int{"1": {0, 0}},
		Labels: []jsonLabel{
			{ID: 0, Name: "person", Columns: []jsonCol{
				{Name: "name", DType: LongString, VLen: 64, Updatable: true},
				{Name: "age", DType: Int32, VLen: 4, Updatable: true},
			}},
			{ID: 1, Name: "knows", Columns: []jsonCol{
				{Name: "since", DType: Int64, VLen: 8, Updatable: false},
			}},
		},
	}
	if diff := cmp.Diff(wantNonGIE, gotNonGIE); diff != "" {
		t.Errorf("non-GIE schema document mismatch (-want +got):\n%s", diff)
	}

	gie, err := s.MarshalForRegistry(true)
	require.NoError(t, err)
	var gotGIE jsonSchema
	require.NoError(t, json.Unmarshal(gie, &gotGIE))

	wantGIE := wantNonGIE
	wantGIE.Labels = []jsonLabel{
		{ID: 0, Name: "person", Columns: []jsonCol{
			{Name: "name", DType: String, VLen: 64, Updatable: true},
			{Name: "age", DType: Int32, VLen: 4, Updatable: true},
		}},
		{ID: 1, Name: "knows", Columns: []jsonCol{
			{Name: "since", DType: Int64, VLen: 8, Updatable: false},
		}},
	}
	if diff := cmp.Diff(wantGIE, gotGIE); diff != "" {
		t.Errorf("GIE schema document mismatch (-want +got):\n%s", diff)
	}
}
