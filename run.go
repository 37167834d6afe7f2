package reef

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ClearColor    Color
	// ShowFPS prints clock and frame-rate info in the top-left corner.
	ShowFPS bool
	// Camera views the scene. Nil creates a default NewCamera.
	Camera *Camera
	// OnUpdate runs before Scene.Update each tick. Use it for input handling
	// that drives the control surface (pause, time scale, doors, bursts).
	// A non-nil error stops the game loop and is returned by Run.
	OnUpdate func() error
	// ScreenshotDir receives frames queued with Scene.Screenshot.
	// Defaults to "screenshots".
	ScreenshotDir string
}

// Run opens a window and drives scene once per tick with a wireframe debug
// renderer: transform origins with their local axes, and particles as dots.
// It blocks until the window closes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 540
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.Camera == nil {
		cfg.Camera = NewCamera(float64(cfg.Width), float64(cfg.Height))
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	g.scene.Update()
	g.cfg.Camera.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

var (
	axisColors     = [3]color.RGBA{{230, 80, 80, 255}, {80, 230, 80, 255}, {80, 120, 255, 255}}
	originColor    = color.RGBA{255, 255, 255, 255}
	particleColor  = color.RGBA{200, 230, 255, 150}
	statsTextColor = color.RGBA{0, 0, 0, 128}
)

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.ClearColor.toRGBA())
	cam := g.cfg.Camera

	for _, t := range g.scene.Transforms() {
		drawTransform(screen, cam, t.WorldMatrix())
	}

	for _, p := range g.scene.ParticlePools() {
		pos, sizes := p.Positions(), p.Sizes()
		for i := range sizes {
			world := mgl64.Vec3{float64(pos[i*3]), float64(pos[i*3+1]), float64(pos[i*3+2])}
			x, y, w, ok := cam.Project(world)
			if !ok {
				continue
			}
			r := float32(float64(sizes[i]) * (20 / w) / 2)
			vector.DrawFilledCircle(screen, float32(x), float32(y), max(r, 1), particleColor, true)
		}
	}

	if g.cfg.ShowFPS {
		clk := g.scene.Clock()
		state := "running"
		if clk.IsPaused() {
			state = "paused"
		}
		vector.DrawFilledRect(screen, 0, 0, 220, 48, statsTextColor, false)
		ebitenutil.DebugPrint(screen, fmt.Sprintf("t: %.2f x%.1f (%s)\nFPS: %.1f TPS: %.1f",
			clk.Time(), clk.TimeScale(), state, ebiten.ActualFPS(), ebiten.ActualTPS()))
	}

	g.scene.flushScreenshots(screen, g.cfg.ScreenshotDir)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.cfg.Camera.Width = float64(outsideWidth)
	g.cfg.Camera.Height = float64(outsideHeight)
	return outsideWidth, outsideHeight
}

// drawTransform draws the origin of m and one unit along each local axis.
func drawTransform(dst *ebiten.Image, cam *Camera, m mgl64.Mat4) {
	ox, oy, _, ok := cam.Project(mgl64.TransformCoordinate(mgl64.Vec3{}, m))
	if !ok {
		return
	}
	for i, clr := range axisColors {
		var axis mgl64.Vec3
		axis[i] = 1
		ax, ay, _, ok := cam.Project(mgl64.TransformCoordinate(axis, m))
		if !ok {
			continue
		}
		vector.StrokeLine(dst, float32(ox), float32(oy), float32(ax), float32(ay), 2, clr, true)
	}
	vector.DrawFilledCircle(dst, float32(ox), float32(oy), 3, originColor, true)
}
