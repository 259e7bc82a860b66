// Command worldbox is a small sandbox-building game: pick a thing from the
// palette, click to place it, drag the camera around your world, save it,
// come back later. Sprite art is generated from text prompts at startup;
// until the generator answers, flat-color placeholders stand in.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/pixelbarrow/worldbox"
	"github.com/pixelbarrow/worldbox/genapi"
)

// zapDiagnostics routes core diagnostics through the game's logger.
type zapDiagnostics struct {
	s *zap.SugaredLogger
}

func (d zapDiagnostics) Infof(format string, args ...any)  { d.s.Infof(format, args...) }
func (d zapDiagnostics) Warnf(format string, args ...any)  { d.s.Warnf(format, args...) }
func (d zapDiagnostics) Errorf(format string, args ...any) { d.s.Errorf(format, args...) }

type paletteItem struct {
	key    worldbox.ResourceKey
	prompt string
	tint   color.RGBA
}

// palette is the set of placeable things. The tint doubles as the
// placeholder texture while generation is in flight.
var palette = []paletteItem{
	{"oak-tree", "pixel art oak tree, game sprite, plain background", color.RGBA{0x2e, 0x8b, 0x57, 0xff}},
	{"rock", "pixel art boulder, game sprite, plain background", color.RGBA{0x80, 0x80, 0x88, 0xff}},
	{"wooden-house", "pixel art small wooden house, game sprite, plain background", color.RGBA{0xa0, 0x6a, 0x3a, 0xff}},
	{"bush", "pixel art leafy bush, game sprite, plain background", color.RGBA{0x4c, 0xaf, 0x50, 0xff}},
	{"fence", "pixel art wooden fence segment, game sprite, plain background", color.RGBA{0xc8, 0xa2, 0x6b, 0xff}},
}

// generated is a finished sprite image handed from a generator goroutine to
// Update, which owns texture registration.
type generated struct {
	key worldbox.ResourceKey
	img image.Image
}

type game struct {
	cfg *Config
	log *zap.SugaredLogger

	world    *worldbox.World
	textures worldbox.TextureMap
	store    *worldbox.FileStore
	gen      *genapi.Client
	arrived  chan generated

	selected int // palette index
}

func newGame(cfg *Config, log *zap.SugaredLogger) *game {
	textures := worldbox.TextureMap{}
	for _, it := range palette {
		img := ebiten.NewImage(cfg.Generator.Size, cfg.Generator.Size)
		img.Fill(it.tint)
		textures[it.key] = img
	}

	viewport := worldbox.Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	w := worldbox.NewWorld(worldbox.NewSpriteFactory(textures), viewport, zapDiagnostics{log})
	w.Culler().Margin = cfg.World.CullMargin
	w.Camera().SetBounds(worldbox.Rect{Width: cfg.World.Width, Height: cfg.World.Height})
	w.Camera().X = cfg.World.Width / 2
	w.Camera().Y = cfg.World.Height / 2
	w.Camera().ClampToBounds()
	for _, it := range palette {
		w.Pool().Prewarm(it.key, cfg.World.Prewarm)
	}

	g := &game{
		cfg:      cfg,
		log:      log,
		world:    w,
		textures: textures,
		store:    worldbox.NewFileStore(cfg.Save.Dir),
		gen: genapi.New(genapi.Config{
			BaseURL: cfg.Generator.BaseURL,
			Model:   cfg.Generator.Model,
			Width:   cfg.Generator.Size,
			Height:  cfg.Generator.Size,
			HTTPClient: &http.Client{
				Timeout: time.Duration(cfg.Generator.TimeoutSeconds) * time.Second,
			},
		}),
		arrived: make(chan generated, len(palette)),
	}
	for _, it := range palette {
		go g.generate(it)
	}
	return g
}

// generate fetches and decodes one palette sprite. Failures keep the
// placeholder; the game stays playable offline.
func (g *game) generate(it paletteItem) {
	data, err := g.gen.Generate(context.Background(), it.prompt)
	if err != nil {
		g.log.Warnw("sprite generation failed, keeping placeholder", "key", it.key, "error", err)
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		g.log.Warnw("generated sprite undecodable, keeping placeholder", "key", it.key, "error", err)
		return
	}
	g.log.Infow("sprite generated", "key", it.key)
	g.arrived <- generated{key: it.key, img: img}
}

func (g *game) Update() error {
	// Register freshly generated art. Pooled placeholders for the key are
	// dropped so reuse picks up the new texture.
drain:
	for {
		select {
		case gen := <-g.arrived:
			g.textures[gen.key] = ebiten.NewImageFromImage(gen.img)
			g.world.Pool().Clear(gen.key)
		default:
			break drain
		}
	}

	g.handleInput()
	g.world.Update(1.0 / 60)
	return nil
}

func (g *game) handleInput() {
	cam := g.world.Camera()
	reg := g.world.Registry()

	for i := range palette {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			g.selected = i
		}
	}

	const panSpeed = 8.0 // world units per frame at zoom 1
	dx, dy := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += panSpeed
	}
	if dx != 0 || dy != 0 {
		cam.Pan(dx/cam.Zoom, dy/cam.Zoom)
		cam.ClampToBounds()
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		cam.Zoom = math.Min(4, math.Max(0.25, cam.Zoom*math.Pow(1.1, wy)))
		cam.ClampToBounds()
		cam.Invalidate()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		wx, wy := cam.ScreenToWorld(float64(mx), float64(my))
		if id, ok := reg.EntryAt(wx, wy); ok {
			if err := reg.Select(id); err != nil {
				g.log.Warnw("select failed", "id", id, "error", err)
			}
		} else {
			key := palette[g.selected].key
			if _, err := reg.Place(key, wx, wy, nil); err != nil {
				g.log.Errorw("place failed", "key", key, "error", err)
			}
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		reg.Deselect()
	}

	if id, ok := reg.Selected(); ok {
		g.editSelected(id)
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := worldbox.SaveWorld(g.store, g.cfg.Save.Slot, reg); err != nil {
			g.log.Errorw("save failed", "slot", g.cfg.Save.Slot, "error", err)
		} else {
			g.log.Infow("world saved", "slot", g.cfg.Save.Slot, "entries", reg.Len())
		}
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyL):
		if err := worldbox.LoadWorld(g.store, g.cfg.Save.Slot, reg); err != nil {
			g.log.Errorw("load failed", "slot", g.cfg.Save.Slot, "error", err)
		} else {
			g.world.RecomputeVisibility()
			g.log.Infow("world loaded", "slot", g.cfg.Save.Slot, "entries", reg.Len())
		}
	case !ctrl && inpututil.IsKeyJustPressed(ebiten.KeyN):
		reg.Clear()
		g.log.Infow("world cleared")
	}
}

// editSelected applies the transform and deletion keys to the selected entry.
func (g *game) editSelected(id worldbox.EntryID) {
	reg := g.world.Registry()
	e, ok := reg.Get(id)
	if !ok {
		return
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		reg.Rotate(id, e.Rotation+math.Pi/12)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		reg.Scale(id, e.ScaleX*1.1, e.ScaleY*1.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		reg.Scale(id, e.ScaleX/1.1, e.ScaleY/1.1)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		reg.SetCollisionEnabled(id, !e.Collision)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete),
		inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		reg.Remove(id)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x24, 0x2a, 0xff})
	g.world.Draw(screen)

	stats := g.world.Pool().Stats()
	sel := "none"
	if id, ok := g.world.Registry().Selected(); ok {
		sel = fmt.Sprintf("#%d", id)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"fps %.0f  entries %d  pooled %d  selected %s  brush %s\n"+
			"1-%d brush  click place/select  R rotate  +/- scale  C collision  Del remove\n"+
			"arrows pan  wheel zoom  ctrl+S save  ctrl+L load  N new world",
		ebiten.ActualFPS(), g.world.Registry().Len(), stats.Pooled, sel,
		palette[g.selected].key, len(palette)))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func main() {
	configPath := flag.String("config", "worldbox.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if err := ebiten.RunGame(newGame(cfg, log)); err != nil {
		log.Fatalw("game loop failed", "error", err)
	}
}
