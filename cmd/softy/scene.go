package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/softy/pkg/math3d"
	"github.com/taigrr/softy/pkg/models"
	"github.com/taigrr/softy/pkg/render"
)

const defaultCameraZ = 5.0

// scene is the model plus everything needed to draw it.
type scene struct {
	name     string
	mesh     *models.Mesh
	material *render.Material
	pipeline *render.ForwardPipeline
	bg       render.Color
	grid     bool
}

// loadMesh loads a glTF model, or the generated cube when path is empty.
// The result is centered and scaled to fit a 2-unit box.
func loadMesh(path string) (*models.Mesh, string, error) {
	if path == "" {
		return models.NewCube(2), "cube", nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
	default:
		return nil, "", fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
	}

	mesh, err := models.LoadGLB(path)
	if err != nil {
		return nil, "", fmt.Errorf("load model: %w", err)
	}
	mesh.Normalize(2)
	return mesh, filepath.Base(path), nil
}

func newScene(cfg config) (*scene, error) {
	mesh, name, err := loadMesh(cfg.modelPath)
	if err != nil {
		return nil, err
	}

	camera := render.NewCamera()
	camera.SetClipPlanes(0.1, 100)
	camera.SetPosition(math3d.V3(0, 0, defaultCameraZ))

	return &scene{
		name:     name,
		mesh:     mesh,
		material: newMaterial(cfg.shader, math3d.V3(0.5, 1, 0.3).Normalize()),
		pipeline: render.NewForwardPipeline(camera, cfg.options),
		bg:       cfg.bg,
		grid:     cfg.grid,
	}, nil
}

// draw renders one frame of the model placed by world into fb.
func (s *scene) draw(fb *render.Framebuffer, world math3d.Mat4) error {
	fb.Clear(s.bg)
	cam := s.pipeline.Camera
	cam.SetAspectFromTarget(fb)

	s.pipeline.AddObject(s.mesh, s.material, world)
	if err := s.pipeline.Render(fb); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if s.grid {
		o := render.NewOverlay(cam, fb)
		o.DrawGrid(6, 0.5, -1.5, render.RGB(70, 70, 90))
		o.DrawAxes(1.5)
		lo, hi := s.mesh.GetBounds()
		o.DrawBox(render.AABB{Min: lo, Max: hi}, world, render.ColorYellow)
	}
	return nil
}

// stillWorld is the pose used for single-frame renders.
func stillWorld() math3d.Mat4 {
	return math3d.RotateX(0.45).Mul(math3d.RotateY(-0.6))
}

// renderPNG draws one frame at the configured size and writes it to
// cfg.output.
func renderPNG(cfg config, s *scene) error {
	fb := render.NewFramebuffer(cfg.width, cfg.height)
	if err := s.draw(fb, stillWorld()); err != nil {
		return err
	}
	if err := fb.SavePNG(cfg.output); err != nil {
		return err
	}

	st := s.pipeline.Rasterizer.Stats
	render.Logger().Info("frame written",
		"path", cfg.output,
		"width", cfg.width,
		"height", cfg.height,
		"triangles", st.TrianglesDrawn,
		"fragments", st.Fragments,
	)
	return nil
}
