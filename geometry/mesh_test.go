// SPDX-License-Identifier: EPL-2.0

package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audspatial/acoustics"
)

func quad() map[string]VertexAttributeValues {
	return map[string]VertexAttributeValues{
		AttributePosition: Float32x3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0, 2, 0}, {1, 2, 0}},
	}
}

func TestToAudioMesh_TriangleList(t *testing.T) {
	t.Parallel()

	m, err := ToAudioMesh(Mesh{
		Topology:   TriangleList,
		Attributes: quad(),
		Indices:    U16{0, 1, 2, 2, 1, 3, 4}, // trailing index is ignored
	})
	require.NoError(t, err)

	assert.Equal(t, [][3]uint32{{0, 1, 2}, {2, 1, 3}}, m.Triangles)
	assert.Len(t, m.Vertices, 6)
	assert.Equal(t, []acoustics.Material{acoustics.Generic}, m.Materials)
	assert.Equal(t, []uint32{0, 0}, m.MaterialIndices)
}

func TestToAudioMesh_TriangleStripAlternatesWinding(t *testing.T) {
	t.Parallel()

	m, err := ToAudioMesh(Mesh{
		Topology:   TriangleStrip,
		Attributes: quad(),
		Indices:    U32{0, 1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	assert.Equal(t, [][3]uint32{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}, {4, 3, 5}}, m.Triangles)
	assert.Len(t, m.MaterialIndices, 4)
}

func TestToAudioMesh_ShortStrip(t *testing.T) {
	t.Parallel()

	m, err := ToAudioMesh(Mesh{Topology: TriangleStrip, Attributes: quad(), Indices: U16{0, 1}})
	require.NoError(t, err)
	assert.Empty(t, m.Triangles)
}

func TestToAudioMesh_NoIndicesNoTriangles(t *testing.T) {
	t.Parallel()

	// topology is only checked when there are indices
	m, err := ToAudioMesh(Mesh{Topology: LineList, Attributes: quad()})
	require.NoError(t, err)
	assert.Empty(t, m.Triangles)
	assert.Empty(t, m.MaterialIndices)
	assert.Len(t, m.Vertices, 6)
}

func TestToAudioMesh_Errors(t *testing.T) {
	t.Parallel()

	_, err := ToAudioMesh(Mesh{Topology: LineStrip, Attributes: quad(), Indices: U16{0, 1, 2}})
	var topo *NonTrianglePrimitiveTopologyError
	require.ErrorAs(t, err, &topo)
	assert.Equal(t, LineStrip, topo.Topology)
	assert.Contains(t, err.Error(), "line-strip")

	_, err = ToAudioMesh(Mesh{Topology: TriangleList, Indices: U16{0, 1, 2}})
	assert.ErrorIs(t, err, ErrNoVertices)

	_, err = ToAudioMesh(Mesh{
		Topology:   TriangleList,
		Attributes: map[string]VertexAttributeValues{AttributePosition: Float32x2{{0, 0}}},
	})
	assert.ErrorIs(t, err, ErrNoVertices)
}

func TestToAudioMesh_CopiesVertices(t *testing.T) {
	t.Parallel()

	attrs := quad()
	m, err := ToAudioMesh(Mesh{Topology: TriangleList, Attributes: attrs})
	require.NoError(t, err)

	attrs[AttributePosition].(Float32x3)[0] = [3]float32{9, 9, 9}
	assert.Equal(t, [3]float32{0, 0, 0}, m.Vertices[0])
}
