package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softy/pkg/math3d"
	"github.com/taigrr/softy/pkg/render"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity used to ease Velocity toward 0
}

// NewRotationAxis creates an axis whose velocity is critically damped.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds the model rotation.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// World returns the model transform for the current angles.
func (r *RotationState) World() math3d.Mat4 {
	return math3d.RotateX(r.Pitch.Position).
		Mul(math3d.RotateY(r.Yaw.Position)).
		Mul(math3d.RotateZ(r.Roll.Position))
}

// ViewState holds UI state that is not part of the render options.
type ViewState struct {
	LightMode    bool        // aiming the light with the mouse
	LightDir     math3d.Vec3 // current light direction
	PendingLight math3d.Vec3 // light direction while aiming
	ShowHUD      bool
	Shader       string
}

func NewViewState(shader string) *ViewState {
	return &ViewState{
		LightDir: math3d.V3(0.5, 1, 0.3).Normalize(),
		Shader:   shader,
	}
}

// ScreenToLightDir maps a cell position to a direction on the hemisphere
// facing the viewer.
func ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	return math3d.V3(nx, -ny, math.Sqrt(1-lenSq)).Normalize()
}

// torque is the rotation input held by the keyboard, per axis.
type torque [3]float64

const (
	axisPitch = iota
	axisYaw
	axisRoll
)

const torqueStrength = 3.0

// torqueKeys binds keys to the axis they push and the direction.
var torqueKeys = []struct {
	keys []string
	axis int
	sign float64
}{
	{[]string{"w", "up"}, axisPitch, -1},
	{[]string{"s", "down"}, axisPitch, 1},
	{[]string{"a", "left"}, axisYaw, -1},
	{[]string{"d", "right"}, axisYaw, 1},
	{[]string{"q"}, axisRoll, -1},
	{[]string{"e"}, axisRoll, 1},
}

// press sets the torque bound to the key, if any.
func (t *torque) press(ev uv.KeyPressEvent) bool {
	for _, k := range torqueKeys {
		if ev.MatchString(k.keys...) {
			t[k.axis] = k.sign * torqueStrength
			return true
		}
	}
	return false
}

// release clears the axis bound to the key.
func (t *torque) release(ev uv.KeyReleaseEvent) {
	for _, k := range torqueKeys {
		if slices.ContainsFunc(k.keys, func(key string) bool { return ev.MatchString(key) }) {
			t[k.axis] = 0
		}
	}
}

// decay applies the held torque for dt seconds and lets it fade.
func (t *torque) decay(r *RotationState, dt float64) {
	r.ApplyImpulse(t[axisPitch]*dt, t[axisYaw]*dt, t[axisRoll]*dt)
	for i := range t {
		t[i] *= 0.9
	}
}

// nextShader returns the shader name after name in sorted order.
func nextShader(name string) string {
	names := shaderNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// HUD renders an overlay with model info and frame statistics.
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD directly to the terminal.
func (h *HUD) Render(width, height int, view *ViewState, opts render.Options, stats render.Stats, grid bool) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height-1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if view.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max((width-60)/2, 1)) + msg)
		return
	}
	if !view.ShowHUD {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset)
	fmt.Print(moveTo(1, max((width-len(h.filename)-2)/2, 1)) + title)

	polys := fmt.Sprintf("%s%s%s %d polys %s", bgBlack, fgCyan, bold, h.polyCount, reset)
	fmt.Print(moveTo(1, max(width-12, 1)) + polys)

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modes := fmt.Sprintf("%s%s %s X-Ray %s Perspective %s Grid  cull:%s  lanes:%d  shader:%s %s",
		bgBlack, fgWhite,
		check(opts.Wireframe), check(opts.PerspectiveCorrect), check(grid),
		opts.CullMode, opts.Lanes, view.Shader, reset)
	fmt.Print(moveTo(height, 1) + modes)

	counts := fmt.Sprintf("%s%s%s drawn %d  clipped %d  culled %d  frags %d %s",
		bgBlack, dim, fgYellow,
		stats.TrianglesDrawn, stats.TrianglesClipped, stats.TrianglesCulled, stats.Fragments, reset)
	fmt.Print(moveTo(height-1, 1) + counts)
}

// runViewer shows s in the terminal until Esc, ctrl+c or a signal.
func runViewer(cfg config, s *scene) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// Every cell shows two pixels stacked vertically.
	fb := render.NewFramebuffer(width, height*2)

	hud := NewHUD(s.name, s.mesh.TriangleCount())
	rotation := NewRotationState(cfg.fps)
	view := NewViewState(cfg.shader)
	opts := &s.pipeline.Rasterizer.Options
	camera := s.pipeline.Camera

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var held torque
	var mouseDown bool
	var lastMouseX, lastMouseY int
	cameraZ := defaultCameraZ
	setZoom := func(z float64) {
		cameraZ = min(max(z, 1), 20)
		camera.SetPosition(math3d.V3(0, 0, cameraZ))
	}

	handle := func(ev any) (quit bool) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			fb.Resize(width, height*2)

		case uv.KeyPressEvent:
			if held.press(ev) {
				break
			}
			switch {
			case ev.MatchString("escape"):
				if !view.LightMode {
					return true
				}
				view.LightMode = false
			case ev.MatchString("ctrl+c"):
				return true
			case ev.MatchString("r"):
				rotation.Reset()
				setZoom(defaultCameraZ)
			case ev.MatchString("space"):
				rotation.ApplyImpulse(
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
				)
			case ev.MatchString("+", "="):
				setZoom(cameraZ - 0.5)
			case ev.MatchString("-", "_"):
				setZoom(cameraZ + 0.5)
			case ev.MatchString("x"):
				opts.Wireframe = !opts.Wireframe
			case ev.MatchString("c"):
				opts.CullMode = (opts.CullMode + 1) % (render.CullNone + 1)
			case ev.MatchString("p"):
				opts.PerspectiveCorrect = !opts.PerspectiveCorrect
			case ev.MatchString("g"):
				s.grid = !s.grid
			case ev.MatchString("n"):
				view.Shader = nextShader(view.Shader)
				s.material.Shader = shaders[view.Shader]()
			case ev.MatchString("1", "2", "3", "4"):
				for n := 1; n <= render.MaxLanes; n++ {
					if ev.MatchString(strconv.Itoa(n)) {
						opts.Lanes = n
					}
				}
			case ev.MatchString("l"):
				view.LightMode = true
				view.PendingLight = view.LightDir
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				view.ShowHUD = !view.ShowHUD
			}

		case uv.KeyReleaseEvent:
			held.release(ev)

		case uv.MouseClickEvent:
			if view.LightMode {
				view.LightDir = view.PendingLight
				view.LightMode = false
			} else {
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseReleaseEvent:
			if !view.LightMode {
				mouseDown = false
			}

		case uv.MouseMotionEvent:
			if view.LightMode {
				view.PendingLight = ScreenToLightDir(ev.X, ev.Y, width, height)
			} else if mouseDown {
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				setZoom(cameraZ - 0.5)
			case uv.MouseWheelDown:
				setZoom(cameraZ + 0.5)
			}
		}
		return false
	}

	targetDuration := time.Second / time.Duration(cfg.fps)
	lastFrame := time.Now()
	events := term.Events()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if handle(ev) {
					return nil
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		// Key release events are unreliable, so held torque fades on its own.
		held.decay(rotation, dt)
		rotation.Update()

		light := view.LightDir
		if view.LightMode {
			light = view.PendingLight
		}
		s.material.SetProperty(render.PropLightDir, light)

		if err := s.draw(fb, rotation.World()); err != nil {
			return err
		}
		fb.Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, view, *opts, s.pipeline.Rasterizer.Stats, s.grid)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
