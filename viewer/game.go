// Package viewer runs the map in an ebiten window with Dear ImGui controls.
package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/ecs/debugui"
	debugui_ebiten "github.com/plus3/mapview/ecs/debugui/ebiten"
	"github.com/plus3/mapview/internal/app"
	"github.com/plus3/mapview/internal/config"
	"github.com/plus3/mapview/internal/logging"
	"github.com/plus3/mapview/render"
	"github.com/plus3/mapview/tilemap"
)

const tickRate = 1.0 / 60.0

// Game implements ebiten.Game.
type Game struct {
	world        *app.World
	renderer     *render.Renderer
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	logger       logrus.FieldLogger
}

// New wires input capture, the ImGui windows and the renderer into w. The
// ImGui backend creates the ebiten window.
func New(cfg config.Config, w *app.World, loader *assets.Loader, logger logrus.FieldLogger) (*Game, error) {
	logger = logging.OrDiscard(logger)

	backend := debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	debugui.RegisterComponents(w.Registry)
	ecs.NewSingleton[debugui_ebiten.ImguiBackend](w.Storage, backend)
	ecs.NewSingleton[debugui.ImguiInputState](w.Storage)

	w.Scheduler.RegisterStage(ecs.StageInput, &debugui.ImguiSystem{})
	w.Scheduler.RegisterStage(ecs.StageInput, NewInputSystem(ebitenDevice{}))

	renderer, err := render.NewRenderer(w.Storage, int64(cfg.Render.TextureBudgetMB)<<20)
	if err != nil {
		return nil, err
	}

	var debug *debugSources
	if cfg.DebugDisplay {
		debug = &debugSources{
			loader:   loader.Stats,
			textures: renderer.Textures().Ratio,
			perf:     debugui.NewPerformanceWindow(w.Storage, w.Scheduler, 120),
		}
	}
	spawnWindows(w, debug)

	return &Game{
		world:        w,
		renderer:     renderer,
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](w.Storage),
		logger:       logger,
	}, nil
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.imguiBackend.Get().BeginFrame()
	g.world.Scheduler.Once(tickRate)
	g.imguiBackend.Get().EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	g.imguiBackend.Get().Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	g.world.Input().WindowSize = tilemap.Vec2{X: float64(outsideWidth), Y: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}

// Run blocks until the window closes.
func (g *Game) Run() error {
	defer g.renderer.Close()
	g.logger.Info("viewer started")
	err := ebiten.RunGame(g)
	g.logger.WithError(err).Info("viewer stopped")
	return err
}
