package unifiedlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEndToEndScenario reproduces the literal spec.md §8 example lines.
func TestEndToEndScenario(t *testing.T) {
	assert.Equal(t, "add_vertex|0|0|A", EncodeVertex(0, 0, []string{"A"}))
	// GID(1,0,0) with 2 partitions and 1 label: fid occupies bit 62.
	assert.Equal(t, "add_vertex|0|4611686018427387904|B", EncodeVertex(0, 1<<62, []string{"B"}))
	assert.Equal(t, "add_vertex|1|1|C", EncodeVertex(1, 1, []string{"C"}))
	assert.Equal(t, "add_edge|1|0|0|1", EncodeEdge(1, 0, 0, 1, nil))
}

func TestDecodeVertex(t *testing.T) {
	rec, err := Decode("add_vertex|0|42|A|30")
	require.NoError(t, err)
	assert.Equal(t, AddVertex, rec.Kind)
	assert.Equal(t, uint64(0), rec.Epoch)
	assert.Equal(t, uint64(42), rec.GID)
	assert.Equal(t, []string{"A", "30"}, rec.Props)
}

func TestDecodeEdge(t *testing.T) {
	rec, err := Decode("add_edge|1|0|7|9")
	require.NoError(t, err)
	assert.Equal(t, AddEdge, rec.Kind)
	assert.Equal(t, uint64(1), rec.Epoch)
	assert.Equal(t, 0, rec.EdgeLabelLocal)
	assert.Equal(t, uint64(7), rec.SrcGID)
	assert.Equal(t, uint64(9), rec.DstGID)
	assert.Empty(t, rec.Props)
}

func TestDecodeRoundTrip(t *testing.T) {
	line := EncodeVertex(3, 99, []string{"x", "y", "z"})
	rec, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec.Epoch)
	assert.Equal(t, uint64(99), rec.GID)
	assert.Equal(t, []string{"x", "y", "z"}, rec.Props)
}

func TestDecodeUnrecognizedKind(t *testing.T) {
	_, err := Decode("delete_vertex|0|1")
	assert.Error(t, err)
}

func TestDecodeMalformedFields(t *testing.T) {
	_, err := Decode("add_vertex|notanumber|1")
	assert.Error(t, err)

	_, err = Decode("add_edge|0|0|1")
	assert.Error(t, err, "add_edge needs at least 5 fields")
}
