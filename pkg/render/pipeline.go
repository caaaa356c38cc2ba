package render

import (
	"fmt"

	"github.com/taigrr/softy/pkg/math3d"
)

// MeshRenderer is the geometry the pipeline can draw. It is implemented by
// models.Mesh; declaring it here keeps render free of a models import.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer is a mesh with local-space bounds, which enables
// frustum culling of the whole mesh.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// ColoredMeshRenderer is a mesh with per-vertex colors.
type ColoredMeshRenderer interface {
	MeshRenderer
	GetVertexColor(i int) math3d.Vec4
}

type renderObject struct {
	mesh     MeshRenderer
	material *Material
	world    math3d.Mat4
}

// ForwardPipeline draws queued objects one after another: vertex shader
// over every mesh vertex, then Rasterize with the material's fragment
// shader. There is no depth test, so later objects draw over earlier ones.
type ForwardPipeline struct {
	Camera     *Camera
	Rasterizer *Rasterizer
	Constants  *ConstantBuffer

	objects []renderObject
	outputs []VertexOutput
	indices []int
}

// NewForwardPipeline creates a pipeline viewing through camera.
func NewForwardPipeline(camera *Camera, opts Options) *ForwardPipeline {
	return &ForwardPipeline{
		Camera:     camera,
		Rasterizer: NewRasterizer(opts),
		Constants:  NewConstantBuffer(),
	}
}

// DefaultMaterial is used for objects added without a material.
func DefaultMaterial() *Material {
	return NewMaterial(LambertShader()).SetProperty(PropColor, ColorWhite)
}

// AddObject queues mesh for the next Render, placed in the world by world.
func (p *ForwardPipeline) AddObject(mesh MeshRenderer, material *Material, world math3d.Mat4) {
	if material == nil {
		material = DefaultMaterial()
	}
	p.objects = append(p.objects, renderObject{mesh: mesh, material: material, world: world})
}

// Render draws every queued object to target and empties the queue. The
// statistics of the frame are left in p.Rasterizer.Stats.
func (p *ForwardPipeline) Render(target RenderTarget) error {
	defer func() { p.objects = p.objects[:0] }()

	if target == nil {
		return ErrNilTarget
	}

	r := p.Rasterizer
	r.ResetStats()

	cb := p.Constants
	cb.View = p.Camera.ViewMatrix()
	cb.Projection = p.Camera.ProjectionMatrix()
	frustum := p.Camera.Frustum()

	for i, obj := range p.objects {
		if p.cull(frustum, obj) {
			continue
		}

		shader := obj.material.Shader
		if shader == nil {
			return fmt.Errorf("object %d: %w", i, ErrNilShader)
		}
		vs := shader.Vertex
		if vs == nil {
			vs = DefaultVertexShader
		}

		cb.World = obj.world
		cb.Properties = obj.material.Properties
		p.runVertexStage(cb, vs, obj.mesh)

		if err := r.Rasterize(cb, target, p.outputs, p.indices, shader.Fragment); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}

	s := r.Stats
	Logger().Debug("frame rendered",
		"objects", len(p.objects),
		"meshes_culled", s.MeshesCulled,
		"triangles", s.TrianglesIn,
		"rejected", s.TrianglesRejected,
		"clipped", s.TrianglesClipped,
		"culled", s.TrianglesCulled,
		"drawn", s.TrianglesDrawn,
		"fragments", s.Fragments,
	)
	return nil
}

// cull reports whether obj is outside the frustum. Meshes without bounds
// are always drawn.
func (p *ForwardPipeline) cull(f Frustum, obj renderObject) bool {
	bounded, ok := obj.mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	stats := &p.Rasterizer.Stats
	stats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !f.IntersectAABB(AABB{Min: lo, Max: hi}.Transform(obj.world)) {
		stats.MeshesCulled++
		return true
	}
	stats.MeshesDrawn++
	return false
}

// runVertexStage shades every vertex of mesh into p.outputs and flattens
// its faces into p.indices.
func (p *ForwardPipeline) runVertexStage(cb *ConstantBuffer, vs VertexShader, mesh MeshRenderer) {
	colored, hasColor := mesh.(ColoredMeshRenderer)

	p.outputs = p.outputs[:0]
	for i := range mesh.VertexCount() {
		pos, normal, uv := mesh.GetVertex(i)
		v := Vertex{Position: pos, Normal: normal, UV: uv, Color: math3d.V4(1, 1, 1, 1)}
		if hasColor {
			v.Color = colored.GetVertexColor(i)
		}
		p.outputs = append(p.outputs, vs.Transform(cb, v))
	}

	p.indices = p.indices[:0]
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		p.indices = append(p.indices, f[0], f[1], f[2])
	}
}
