package loaders

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/qmuntal/gltf"
)

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into one
// mesh per glTF mesh, all sharing the given material.
func LoadGLTF(path string, mat material.Phong) ([]geometry.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	meshes, err := meshesFromDocument(doc, filepath.Base(path), mat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meshes, nil
}

// meshesFromDocument converts the meshes of a decoded document
func meshesFromDocument(doc *gltf.Document, name string, mat material.Phong) ([]geometry.Mesh, error) {
	var meshes []geometry.Mesh
	for i, m := range doc.Meshes {
		mesh := geometry.Mesh{Name: m.Name, Material: mat}
		if mesh.Name == "" {
			mesh.Name = fmt.Sprintf("%s#%d", name, i)
		}

		for _, prim := range m.Primitives {
			if err := appendPrimitive(doc, prim, &mesh); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", mesh.Name, err)
			}
		}
		if len(mesh.Triangles) > 0 {
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

// appendPrimitive adds the vertices and triangles of one primitive to mesh
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *geometry.Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Skip non-triangle primitives (lines, points, etc)
		return nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals []core.Vec3
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = readVec3Accessor(doc, normIdx)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := geometry.Vertex{Position: p}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, sequential triangles
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		tri := [3]int{indices[i], indices[i+1], indices[i+2]}
		for _, index := range tri {
			if index < 0 || index >= len(positions) {
				return fmt.Errorf("index %d out of %d vertices: %w", index, len(positions), ErrMalformed)
			}
		}
		mesh.Triangles = append(mesh.Triangles, [3]int{base + tri[0], base + tri[1], base + tri[2]})
	}
	return nil
}

// readVec3Accessor reads float VEC3 data from an accessor
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]core.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrMalformed)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v: %w", accessor.Type, accessor.ComponentType, ErrUnsupportedFormat)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]core.Vec3, accessor.Count)
	for i := range result {
		offset := i * stride
		result[i] = core.NewVec3(
			readFloat32(data[offset:]),
			readFloat32(data[offset+4:]),
			readFloat32(data[offset+8:]),
		)
	}
	return result, nil
}

// readIndices reads unsigned SCALAR index data from an accessor
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrMalformed)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v: %w", accessor.Type, ErrUnsupportedFormat)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type %v: %w", accessor.ComponentType, ErrUnsupportedFormat)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		offset := i * stride
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		default:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes returns the buffer bytes starting at the accessor's first
// element along with the element stride. The slice is checked to hold every
// element.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view: %w", ErrUnsupportedFormat)
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d: %w", *accessor.BufferView, ErrMalformed)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d: %w", bufferView.Buffer, ErrMalformed)
	}

	// gltf.Open resolves external and embedded buffers into Data
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, 0, fmt.Errorf("buffer has no data: %w", ErrMalformed)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elementSize
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	if accessor.Count == 0 {
		return nil, stride, nil
	}
	end := start + (accessor.Count-1)*stride + elementSize
	if start < 0 || end > len(bufData) {
		return nil, 0, fmt.Errorf("accessor reads bytes [%d, %d) of %d: %w", start, end, len(bufData), ErrMalformed)
	}
	return bufData[start:end], stride, nil
}

// readFloat32 reads a little-endian float32
func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
