// softy - software rasterizer demo
// Renders a glTF model (or a generated cube) with the softy CPU pipeline,
// either into a PNG file or live in the terminal.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	X           - Toggle wireframe mode (x-ray)
//	C           - Cycle face culling (back, front, none)
//	P           - Toggle perspective-correct interpolation
//	N           - Next shader
//	G           - Toggle axes, grid and bounds overlay
//	1-4         - Fill lanes
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/taigrr/softy/pkg/render"
)

func main() {
	var f flags
	f.register(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	cfg, err := f.config(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	render.SetLogger(newLogger(os.Stderr, cfg.verbose))

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "softy - software rasterizer\n\n")
	fmt.Fprintf(os.Stderr, "Usage: softy [options] [model.glb|model.gltf]\n\n")
	fmt.Fprintf(os.Stderr, "Without a model a cube is shown. Without -o the terminal viewer runs.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nControls:\n")
	fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
	fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
	fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
	fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
	fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
	fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
	fmt.Fprintf(os.Stderr, "  X/C/P       - Wireframe, culling, perspective\n")
	fmt.Fprintf(os.Stderr, "  N           - Next shader\n")
	fmt.Fprintf(os.Stderr, "  G           - Overlay\n")
	fmt.Fprintf(os.Stderr, "  1-4         - Fill lanes\n")
	fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
	fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
	fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
}

// newLogger returns a text logger on w. Without verbose only warnings and
// errors are written.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(cfg config) error {
	s, err := newScene(cfg)
	if err != nil {
		return err
	}
	if cfg.output != "" {
		return renderPNG(cfg, s)
	}
	return runViewer(cfg, s)
}
