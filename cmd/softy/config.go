package main

import (
	"flag"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/taigrr/softy/pkg/math3d"
	"github.com/taigrr/softy/pkg/render"
)

// config is the parsed command line.
type config struct {
	output        string
	width, height int
	fps           int
	bg            render.Color
	options       render.Options
	shader        string
	grid          bool
	verbose       bool
	modelPath     string
}

// shaders maps -shader names to the stock shaders.
var shaders = map[string]func() *render.Shader{
	"unlit":   render.UnlitColorShader,
	"normal":  render.NormalShader,
	"lambert": render.LambertShader,
	"color":   render.VertexColorShader,
}

func shaderNames() []string {
	return slices.Sorted(maps.Keys(shaders))
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

// parseColor parses "R,G,B" with components in 0-255.
func parseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("invalid color %q, want R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}

// flags holds the raw command line values.
type flags struct {
	output, size, bg, cull, shader string
	fps, lanes                     int
	wireframe, perspective         bool
	grid, verbose                  bool
}

func (f *flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.output, "o", "", "Render one frame to this PNG file and exit")
	fs.StringVar(&f.size, "size", "320x240", "Image size for -o (WxH)")
	fs.IntVar(&f.fps, "fps", 60, "Target FPS")
	fs.StringVar(&f.bg, "bg", "30,30,40", "Background color (R,G,B)")
	fs.BoolVar(&f.wireframe, "wireframe", false, "Draw triangle outlines instead of filling")
	fs.StringVar(&f.cull, "cull", "back", "Face culling: back, front or none")
	fs.IntVar(&f.lanes, "lanes", render.MaxLanes, "Samples tested per fill step (1-4)")
	fs.BoolVar(&f.perspective, "perspective", false, "Perspective-correct attribute interpolation")
	fs.StringVar(&f.shader, "shader", "lambert", "Shader: "+strings.Join(shaderNames(), ", "))
	fs.BoolVar(&f.grid, "grid", false, "Draw axes, a ground grid and the model bounds")
	fs.BoolVar(&f.verbose, "v", false, "Log frame statistics to stderr")
}

// config validates the raw values. args are the positional arguments.
func (f *flags) config(args []string) (config, error) {
	cfg := config{
		output:  f.output,
		fps:     f.fps,
		shader:  f.shader,
		grid:    f.grid,
		verbose: f.verbose,
	}
	if len(args) > 1 {
		return cfg, fmt.Errorf("expected at most one model, got %d arguments", len(args))
	}
	if len(args) == 1 {
		cfg.modelPath = args[0]
	}

	var err error
	if cfg.width, cfg.height, err = parseSize(f.size); err != nil {
		return cfg, err
	}
	if cfg.bg, err = parseColor(f.bg); err != nil {
		return cfg, err
	}
	if f.fps <= 0 {
		return cfg, fmt.Errorf("fps must be positive, got %d", f.fps)
	}
	if f.lanes < 1 || f.lanes > render.MaxLanes {
		return cfg, fmt.Errorf("lanes must be between 1 and %d, got %d", render.MaxLanes, f.lanes)
	}
	mode, err := render.ParseCullMode(f.cull)
	if err != nil {
		return cfg, err
	}
	if _, ok := shaders[f.shader]; !ok {
		return cfg, fmt.Errorf("unknown shader %q (want %s)", f.shader, strings.Join(shaderNames(), ", "))
	}

	cfg.options = render.Options{
		Lanes:              f.lanes,
		CullMode:           mode,
		PerspectiveCorrect: f.perspective,
		Wireframe:          f.wireframe,
	}
	return cfg, nil
}

// newMaterial builds the material for a shader name.
func newMaterial(name string, light math3d.Vec3) *render.Material {
	return render.NewMaterial(shaders[name]()).
		SetProperty(render.PropColor, render.RGB(200, 200, 200)).
		SetProperty(render.PropLightDir, light)
}
