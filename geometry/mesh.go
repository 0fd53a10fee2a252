// SPDX-License-Identifier: EPL-2.0

package geometry

import (
	"errors"
	"fmt"

	"github.com/ik5/audspatial/acoustics"
)

// ErrNoVertices is returned when a mesh has no Float32x3 position attribute.
var ErrNoVertices = errors.New("geometry: mesh has no float32x3 positions")

// Topology is how a mesh's index list is assembled into primitives.
type Topology int

const (
	PointList Topology = iota
	LineList
	LineStrip
	TriangleList
	TriangleStrip
)

func (t Topology) String() string {
	switch t {
	case PointList:
		return "point-list"
	case LineList:
		return "line-list"
	case LineStrip:
		return "line-strip"
	case TriangleList:
		return "triangle-list"
	case TriangleStrip:
		return "triangle-strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// NonTrianglePrimitiveTopologyError is returned for indexed meshes that are
// neither triangle lists nor triangle strips.
type NonTrianglePrimitiveTopologyError struct {
	Topology Topology
}

func (e *NonTrianglePrimitiveTopologyError) Error() string {
	return fmt.Sprintf("geometry: non-triangle primitive topology %s", e.Topology)
}

// AttributePosition is the attribute key holding vertex positions.
const AttributePosition = "position"

// VertexAttributeValues is one typed vertex attribute column.
type VertexAttributeValues interface {
	Len() int
}

type (
	Float32x3 [][3]float32
	Float32x2 [][2]float32
)

func (v Float32x3) Len() int { return len(v) }
func (v Float32x2) Len() int { return len(v) }

// Indices is a U16 or U32 index list.
type Indices interface {
	widen() []uint32
}

type (
	U16 []uint16
	U32 []uint32
)

func (i U16) widen() []uint32 {
	out := make([]uint32, len(i))
	for k, v := range i {
		out[k] = uint32(v)
	}
	return out
}

func (i U32) widen() []uint32 { return []uint32(i) }

// Mesh is a render mesh: named vertex attributes plus an optional index
// list interpreted according to Topology.
type Mesh struct {
	Topology   Topology
	Attributes map[string]VertexAttributeValues
	Indices    Indices
}

// AudioMesh is the acoustic view of a mesh. Every triangle uses
// Materials[MaterialIndices[i]].
type AudioMesh struct {
	Vertices        [][3]float32
	Triangles       [][3]uint32
	Materials       []acoustics.Material
	MaterialIndices []uint32
}

// ToAudioMesh converts m into an AudioMesh with the Generic material on
// every triangle. A mesh without indices has no triangles. Strip
// triangles alternate winding so they all face the same way as the first.
func ToAudioMesh(m Mesh) (AudioMesh, error) {
	var triangles [][3]uint32

	if m.Indices != nil {
		idx := m.Indices.widen()

		switch m.Topology {
		case TriangleList:
			triangles = make([][3]uint32, 0, len(idx)/3)
			for i := 0; i+3 <= len(idx); i += 3 {
				triangles = append(triangles, [3]uint32{idx[i], idx[i+1], idx[i+2]})
			}
		case TriangleStrip:
			if len(idx) >= 3 {
				triangles = make([][3]uint32, 0, len(idx)-2)
			}
			for i := 0; i+3 <= len(idx); i++ {
				if i%2 == 1 {
					triangles = append(triangles, [3]uint32{idx[i+1], idx[i], idx[i+2]})
				} else {
					triangles = append(triangles, [3]uint32{idx[i], idx[i+1], idx[i+2]})
				}
			}
		default:
			return AudioMesh{}, &NonTrianglePrimitiveTopologyError{Topology: m.Topology}
		}
	}

	positions, ok := m.Attributes[AttributePosition].(Float32x3)
	if !ok {
		return AudioMesh{}, ErrNoVertices
	}

	vertices := make([][3]float32, len(positions))
	copy(vertices, positions)

	return AudioMesh{
		Vertices:        vertices,
		Triangles:       triangles,
		Materials:       []acoustics.Material{acoustics.Generic},
		MaterialIndices: make([]uint32, len(triangles)),
	}, nil
}
