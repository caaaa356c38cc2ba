package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/softy/pkg/math3d"
)

// ErrNoGeometry is returned when a glTF document has no triangle
// primitives with positions.
var ErrNoGeometry = errors.New("gltf: no triangle geometry")

// GLTFLoader converts glTF documents into a single Mesh. Every triangle
// primitive of every mesh is merged; glTF's counter-clockwise front faces
// are kept as they are.
type GLTFLoader struct {
	// CalculateNormals fills in normals when the file has none.
	CalculateNormals bool
	// SmoothNormals averages generated normals across shared vertices.
	SmoothNormals bool
}

// NewGLTFLoader returns a loader that generates smooth normals when missing.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a .glb or .gltf file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads the file at path.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.LoadDocument(doc, filepath.Base(path))
}

// LoadDocument converts an already decoded document.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	hasNormals := false

	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			n, err := l.addPrimitive(doc, prim, mesh)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			hasNormals = hasNormals || n
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// addPrimitive appends the vertices and faces of prim to mesh and reports
// whether the primitive carried normals.
func (l *GLTFLoader) addPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return false, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return false, nil
	}

	positions, err := readVec3(doc, posIdx)
	if err != nil {
		return false, fmt.Errorf("positions: %w", err)
	}

	var normals []math3d.Vec3
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = readVec3(doc, idx); err != nil {
			return false, fmt.Errorf("normals: %w", err)
		}
	}

	var uvs []math3d.Vec2
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readVec2(doc, idx); err != nil {
			return false, fmt.Errorf("uvs: %w", err)
		}
	}

	var colors []math3d.Vec4
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if colors, err = readColors(doc, idx); err != nil {
			return false, fmt.Errorf("colors: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: p, Color: White}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			// glTF puts v=0 at the top of the image.
			v.UV = math3d.V2(uvs[i].X, 1-uvs[i].Y)
		}
		if i < len(colors) {
			v.Color = colors[i]
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []int
	if prim.Indices != nil {
		if indices, err = readIndices(doc, *prim.Indices); err != nil {
			return false, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		f := Face{V: [3]int{indices[i], indices[i+1], indices[i+2]}}
		for k := range f.V {
			if f.V[k] < 0 || f.V[k] >= len(positions) {
				return false, fmt.Errorf("index %d out of range (%d vertices)", f.V[k], len(positions))
			}
			f.V[k] += base
		}
		mesh.Faces = append(mesh.Faces, f)
	}

	return len(normals) > 0, nil
}

// accessorBytes returns the buffer backing accessor a, the offset of its
// first element and the distance between elements.
func accessorBytes(doc *gltf.Document, a *gltf.Accessor, elemSize int) (data []byte, start, stride int, err error) {
	if a.BufferView == nil {
		return nil, 0, 0, errors.New("accessor has no buffer view")
	}
	view := doc.BufferViews[*a.BufferView]
	buf := doc.Buffers[view.Buffer]
	if buf.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}

	start = view.ByteOffset + a.ByteOffset
	stride = view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if a.Count > 0 {
		if end := start + (a.Count-1)*stride + elemSize; end > len(buf.Data) {
			return nil, 0, 0, fmt.Errorf("accessor reads %d bytes past a %d byte buffer", end, len(buf.Data))
		}
	}
	return buf.Data, start, stride, nil
}

// readFloats reads count elements of n float32 components each.
func readFloats(doc *gltf.Document, idx int, typ gltf.AccessorType, n int) ([][4]float64, error) {
	a := doc.Accessors[idx]
	if a.Type != typ {
		return nil, fmt.Errorf("expected %v accessor, got %v", typ, a.Type)
	}
	if a.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", a.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, a, 4*n)
	if err != nil {
		return nil, err
	}

	out := make([][4]float64, a.Count)
	for i := range out {
		off := start + i*stride
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[off+4*j:])
			out[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	raw, err := readFloats(doc, idx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, len(raw))
	for i, f := range raw {
		out[i] = math3d.V3(f[0], f[1], f[2])
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	raw, err := readFloats(doc, idx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, len(raw))
	for i, f := range raw {
		out[i] = math3d.V2(f[0], f[1])
	}
	return out, nil
}

// readColors reads float RGB or RGBA vertex colors.
func readColors(doc *gltf.Document, idx int) ([]math3d.Vec4, error) {
	typ, n := gltf.AccessorVec4, 4
	if doc.Accessors[idx].Type == gltf.AccessorVec3 {
		typ, n = gltf.AccessorVec3, 3
	}
	raw, err := readFloats(doc, idx, typ, n)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec4, len(raw))
	for i, f := range raw {
		if n == 3 {
			f[3] = 1
		}
		out[i] = math3d.V4(f[0], f[1], f[2], f[3])
	}
	return out, nil
}

// readIndices reads an unsigned scalar index accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	a := doc.Accessors[idx]
	if a.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected scalar indices, got %v", a.Type)
	}

	var size int
	switch a.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", a.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, a, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, a.Count)
	for i := range out {
		b := data[start+i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
