package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/dtxchart-go/internal/chartio"
	"github.com/cbegin/dtxchart-go/internal/config"
	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
	"github.com/cbegin/dtxchart-go/internal/render"
)

const (
	windowW    = 1280
	windowH    = 800
	minWindowW = 980
	minWindowH = 640

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale

	relayoutDelay = 150 * time.Millisecond
)

var (
	bgColor        = color.RGBA{192, 192, 192, 255}
	panelColor     = color.RGBA{192, 192, 192, 255}
	borderColor    = color.RGBA{128, 128, 128, 255}
	highlightColor = color.RGBA{0, 0, 128, 255}
	bevelLight     = color.RGBA{255, 255, 255, 255}
	bevelDarker    = color.RGBA{64, 64, 64, 255}
	sunkenBgColor  = color.RGBA{24, 24, 32, 255}
)

type navEntry struct {
	name  string
	path  string
	isDir bool
}

type game struct {
	opener   *chartio.Opener
	parser   *dtx.Parser
	pos      *layout.Positioner
	encoding string
	assetDir string
	// relayoutSoon coalesces option changes into one layout pass.
	relayoutSoon func(func())

	mu        sync.Mutex
	chart     *dtx.Chart
	canvases  []layout.Canvas
	cfg       layout.DrawingConfig
	layoutGen int
	status    string
	statusErr bool

	surface int
	view    viewport

	cwd        string
	nav        []navEntry
	navScroll  int
	loadedPath string

	textCache map[string]*ebiten.Image
	viewW     int
	viewH     int
}

func newGame(file config.File, initialPath string) (*game, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if initialPath != "" {
		cwd = filepath.Dir(initialPath)
	}
	dialect, err := file.ParserDialect()
	if err != nil {
		return nil, err
	}
	quiet := log.New(io.Discard, "", 0)
	g := &game{
		opener:       &chartio.Opener{},
		parser:       dtx.NewParser(dtx.ParserConfig{Dialect: dialect, Logger: quiet}),
		pos:          layout.New(geometry.NewTable(quiet), quiet),
		encoding:     file.Encoding,
		assetDir:     file.Assets,
		relayoutSoon: debounce.New(relayoutDelay),
		cfg:          file.DrawingConfig,
		status:       "Ready",
		cwd:          cwd,
		textCache:    make(map[string]*ebiten.Image, 1024),
		viewW:        windowW,
		viewH:        windowH,
	}
	if err := g.refreshNav(); err != nil {
		g.setError(err.Error())
	}
	if initialPath != "" {
		if err := g.loadFile(initialPath); err != nil {
			g.setError(err.Error())
		}
	}
	return g, nil
}

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()

	g.mu.Lock()
	cfg := g.cfg
	canvases := g.canvases
	status, statusErr := g.status, g.statusErr
	g.mu.Unlock()

	g.drawSunkenPanel(screen, l.nav)
	g.drawSunkenPanel(screen, l.chart)
	g.drawButton(screen, l.game, "Game: "+string(cfg.GameMode))
	g.drawButton(screen, l.mode, "Mode: "+string(cfg.ChartMode))
	g.drawButton(screen, l.scale, fmt.Sprintf("Scale: %g", cfg.Scale))
	g.drawButton(screen, l.page, g.pageLabel(len(canvases)))
	g.drawSunkenPanel(screen, l.status)

	g.drawText(screen, "Charts", l.nav.Min.X+8, l.nav.Min.Y+8)
	g.drawNavigator(screen, l.nav)
	if g.surface >= len(canvases) {
		g.surface = 0
	}
	if len(canvases) > 0 {
		g.drawCanvas(screen, l.chart, canvases[g.surface])
	} else {
		g.drawText(screen, "Select a .dtx or .gda chart.", l.chart.Min.X+12, l.chart.Min.Y+12)
	}
	if statusErr {
		status = "! " + status
	}
	g.drawText(screen, shortenEnd(status, (l.status.Dx()-16)/charW), l.status.Min.X+8, l.status.Min.Y+6)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	outsideW = max(outsideW, minWindowW)
	outsideH = max(outsideH, minWindowH)
	g.viewW = outsideW
	g.viewH = outsideH
	return outsideW, outsideH
}

func (g *game) pageLabel(n int) string {
	if n == 0 {
		return "Surface -"
	}
	return fmt.Sprintf("Surface %d/%d", g.surface+1, n)
}

func (g *game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.cycleGame()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.cycleChartMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		g.stepScale(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		g.stepScale(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.updateConfig(func(cfg *layout.DrawingConfig) { cfg.LevelShown = !cfg.LevelShown })
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.flipSurface(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp), inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.flipSurface(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.exportPDF()
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.view.scrollX += 24
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.view.scrollX -= 24
	}
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	l := g.layoutRects()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case pointInRect(mx, my, l.game):
			g.cycleGame()
		case pointInRect(mx, my, l.mode):
			g.cycleChartMode()
		case pointInRect(mx, my, l.scale):
			g.stepScale(1)
		case pointInRect(mx, my, l.page):
			g.flipSurface(1)
		case pointInRect(mx, my, l.nav):
			g.clickNavigator(my, l.nav)
		}
	}

	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	if pointInRect(mx, my, l.nav) {
		g.navScroll = max(0, g.navScroll-int(wy*2))
	}
	if pointInRect(mx, my, l.chart) {
		g.view.scrollX -= wy * 48
	}
}

type uiLayout struct {
	nav, chart              image.Rectangle
	game, mode, scale, page image.Rectangle
	status                  image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	w := max(g.viewW, minWindowW)
	h := max(g.viewH, minWindowH)

	pad := 20
	rowH := 44
	statusH := 40
	statusTop := h - pad - statusH
	controlsTop := statusTop - 8 - rowH
	contentBottom := controlsTop - 12

	navW := 280
	navRect := image.Rect(pad, pad, pad+navW, contentBottom)
	chartRect := image.Rect(navRect.Max.X+12, pad, w-pad, contentBottom)

	return uiLayout{
		nav:    navRect,
		chart:  chartRect,
		game:   image.Rect(pad, controlsTop, pad+220, controlsTop+rowH),
		mode:   image.Rect(pad+232, controlsTop, pad+532, controlsTop+rowH),
		scale:  image.Rect(pad+544, controlsTop, pad+724, controlsTop+rowH),
		page:   image.Rect(pad+736, controlsTop, pad+956, controlsTop+rowH),
		status: image.Rect(pad, statusTop, w-pad, statusTop+statusH),
	}
}

func (g *game) cycleGame() {
	g.updateConfig(func(cfg *layout.DrawingConfig) {
		cfg.GameMode = next(geometry.GameModes, cfg.GameMode, 1)
	})
}

func (g *game) cycleChartMode() {
	g.updateConfig(func(cfg *layout.DrawingConfig) {
		cfg.ChartMode = next(geometry.ChartModes, cfg.ChartMode, 1)
	})
}

func (g *game) stepScale(step int) {
	g.updateConfig(func(cfg *layout.DrawingConfig) {
		cfg.Scale = next(layout.Scales, cfg.Scale, step)
	})
}

func (g *game) flipSurface(step int) {
	g.mu.Lock()
	n := len(g.canvases)
	g.mu.Unlock()
	if n == 0 {
		return
	}
	g.surface = (g.surface + step + n) % n
	g.view.scrollX = 0
}

// updateConfig applies change now and lays the chart out once the keys
// settle.
func (g *game) updateConfig(change func(*layout.DrawingConfig)) {
	g.mu.Lock()
	change(&g.cfg)
	g.layoutGen++
	g.mu.Unlock()
	g.relayoutSoon(g.relayout)
}

func (g *game) relayout() {
	g.mu.Lock()
	chart, cfg, gen := g.chart, g.cfg, g.layoutGen
	g.mu.Unlock()
	if chart == nil {
		return
	}
	canvases, err := g.pos.Compute(chart, cfg)

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.layoutGen {
		return
	}
	if err != nil {
		g.status, g.statusErr = err.Error(), true
		return
	}
	g.canvases = canvases
	g.status, g.statusErr = fmt.Sprintf("%s: %d surface(s)", chart.SongInfo.Title, len(canvases)), false
}

func (g *game) exportPDF() {
	g.mu.Lock()
	canvases, path := g.canvases, g.loadedPath
	g.mu.Unlock()
	if len(canvases) == 0 {
		return
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	f, err := os.Create(out)
	if err != nil {
		g.setError(err.Error())
		return
	}
	defer f.Close()
	if err := render.PDF(f, canvases, render.Options{AssetDir: g.assetDir}); err != nil {
		g.setError(err.Error())
		return
	}
	g.setStatus("Wrote " + filepath.Base(out))
}

func (g *game) drawNavigator(screen *ebiten.Image, rect image.Rectangle) {
	label := g.cwd
	if g.loadedPath != "" {
		label = g.cwd + "  [" + filepath.Base(g.loadedPath) + "]"
	}
	maxChars := max(8, (rect.Dx()-16)/charW)
	g.drawText(screen, shortenMiddle(label, maxChars), rect.Min.X+8, rect.Min.Y+8+lineH)

	top := rect.Min.Y + 12 + (lineH * 2)
	maxLines := max(1, (rect.Dy()-(lineH*2)-18)/lineH)
	g.navScroll = min(g.navScroll, max(0, len(g.nav)-maxLines))
	for i := 0; i < maxLines; i++ {
		idx := g.navScroll + i
		if idx >= len(g.nav) {
			break
		}
		e := g.nav[idx]
		gy := top + i*lineH
		if samePath(e.path, g.loadedPath) {
			ebitenutil.DrawRect(screen, float64(rect.Min.X+6), float64(gy), float64(rect.Dx()-12), float64(lineH), highlightColor)
		}
		name := e.name
		if e.isDir {
			name += "/"
		}
		g.drawText(screen, shortenEnd(name, maxChars), rect.Min.X+8, gy)
	}
}

func (g *game) clickNavigator(my int, rect image.Rectangle) {
	top := rect.Min.Y + 12 + (lineH * 2)
	row := (my - top) / lineH
	if row < 0 {
		return
	}
	idx := g.navScroll + row
	if idx < 0 || idx >= len(g.nav) {
		return
	}
	entry := g.nav[idx]
	if entry.isDir {
		g.cwd = entry.path
		g.navScroll = 0
		if err := g.refreshNav(); err != nil {
			g.setError(err.Error())
			return
		}
		g.setStatus("Directory: " + g.cwd)
		return
	}
	if err := g.loadFile(entry.path); err != nil {
		g.setError(err.Error())
	}
}

func (g *game) refreshNav() error {
	items, err := os.ReadDir(g.cwd)
	if err != nil {
		return err
	}
	var dirs, files []navEntry
	parent := filepath.Dir(g.cwd)
	if parent != g.cwd {
		dirs = append(dirs, navEntry{name: "..", path: parent, isDir: true})
	}
	for _, it := range items {
		name := it.Name()
		full := filepath.Join(g.cwd, name)
		if it.IsDir() {
			dirs = append(dirs, navEntry{name: name, path: full, isDir: true})
			continue
		}
		if isChartFile(name) {
			files = append(files, navEntry{name: name, path: full})
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].name == ".." {
			return true
		}
		if dirs[j].name == ".." {
			return false
		}
		return strings.ToLower(dirs[i].name) < strings.ToLower(dirs[j].name)
	})
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].name) < strings.ToLower(files[j].name)
	})
	g.nav = append(dirs, files...)
	return nil
}

func isChartFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".dtx" || ext == ".gda"
}

func (g *game) loadFile(path string) error {
	text, err := g.opener.OpenText(context.Background(), path, g.encoding)
	if err != nil {
		return err
	}
	chart, err := g.parser.Parse(text)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.chart = chart
	g.canvases = nil
	g.loadedPath = path
	g.layoutGen++
	g.mu.Unlock()

	g.surface = 0
	g.view.scrollX = 0
	g.cwd = filepath.Dir(path)
	g.relayout()
	return g.refreshNav()
}

func (g *game) setError(msg string) {
	g.mu.Lock()
	g.status, g.statusErr = msg, true
	g.mu.Unlock()
}

func (g *game) setStatus(msg string) {
	g.mu.Lock()
	g.status, g.statusErr = msg, false
	g.mu.Unlock()
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
	label = shortenEnd(label, (rect.Dx()-8)/charW)
	labelW := len([]rune(label)) * charW
	x := rect.Min.X + (rect.Dx()-labelW)/2
	y := rect.Min.Y + (rect.Dy()-lineH)/2
	g.drawText(screen, label, x, y)
}

// drawBorder draws a raised bevel.
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws a sunken bevel.
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, h := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

func (g *game) textImage(msg string) *ebiten.Image {
	img := g.textCache[msg]
	if img == nil {
		img = ebiten.NewImage(max(1, len([]rune(msg))*7), 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 3000 {
			g.textCache = make(map[string]*ebiten.Image, 1024)
		}
		g.textCache[msg] = img
	}
	return img
}

func (g *game) drawText(screen *ebiten.Image, msg string, x int, y int) {
	if msg == "" {
		return
	}
	img := g.textImage(msg)
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, opS)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func shortenEnd(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	if maxChars <= 3 {
		return string(r[:max(0, maxChars)])
	}
	return string(r[:maxChars-3]) + "..."
}

func shortenMiddle(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	if maxChars <= 7 {
		return shortenEnd(s, maxChars)
	}
	left := (maxChars - 3) / 2
	right := maxChars - 3 - left
	return string(r[:left]) + "..." + string(r[len(r)-right:])
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

func main() {
	file, err := config.Load(os.Getenv("DTXCHART_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	var initialPath string
	if len(os.Args) > 1 {
		p, err := filepath.Abs(os.Args[1])
		if err != nil {
			log.Fatalf("resolve %q: %v", os.Args[1], err)
		}
		initialPath = p
	}

	g, err := newGame(file, initialPath)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("dtxchart viewer")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
