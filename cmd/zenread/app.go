package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tsawler/zenread"
	"github.com/tsawler/zenread/input"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/render"
	"github.com/tsawler/zenread/session"
)

const (
	hudHeight   = 28
	wheelStep   = 48
	minWindowW  = 480
	minWindowH  = 360
	windowTitle = "zenread"
)

var (
	backdrop = color.RGBA{R: 38, G: 38, B: 42, A: 255}
	hudFill  = color.RGBA{R: 0, G: 0, B: 0, A: 160}
)

// keyBindings maps ebiten keys to reader keys. Several physical keys may
// share a binding.
var keyBindings = []struct {
	key ebiten.Key
	to  input.Key
}{
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeySpace, input.KeySpace},
	{ebiten.KeyEscape, input.KeyEscape},
	{ebiten.KeyEqual, input.KeyPlus},
	{ebiten.KeyKPAdd, input.KeyPlus},
	{ebiten.KeyMinus, input.KeyMinus},
	{ebiten.KeyKPSubtract, input.KeyMinus},
	{ebiten.KeyDigit0, input.KeyZero},
	{ebiten.KeyNumpad0, input.KeyZero},
	{ebiten.KeyF, input.KeyF},
	{ebiten.KeyP, input.KeyP},
	{ebiten.KeyR, input.KeyR},
}

// app is the ebiten game driving one reading session. With loadErr set it
// only shows the error until dismissed.
type app struct {
	s       *zenread.Session
	loadErr error
	compact bool

	frame    session.Frame
	viewport render.Viewport

	page     *ebiten.Image
	shownGen uint64
	shownHL  int
	scrollY  float64
	resets   uint64

	cursor  image.Point
	touches []ebiten.TouchID

	outsideW, outsideH int
	scale              float64
}

func newApp(s *zenread.Session, loadErr error, compact bool) *app {
	return &app{s: s, loadErr: loadErr, compact: compact, shownHL: -1, scale: 1}
}

func (a *app) Run() error {
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *app) Update() error {
	if a.loadErr != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			return ebiten.Termination
		}
		return nil
	}

	now := time.Now()
	a.updateViewport(now)

	in := a.s.Input()
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			in.Key(b.to)
		}
	}

	x, y := ebiten.CursorPosition()
	if p := image.Pt(x, y); p != a.cursor {
		a.cursor = p
		in.PointerMove(now, a.css(float64(x), float64(y)))
	}
	a.updateTouches(now, in)

	if _, dy := ebiten.Wheel(); dy != 0 {
		a.scrollY -= dy * wheelStep
	}

	a.frame = a.s.Frame(now)
	if a.frame.Closed {
		return ebiten.Termination
	}
	if a.frame.Fullscreen != ebiten.IsFullscreen() {
		ebiten.SetFullscreen(a.frame.Fullscreen)
	}
	if a.frame.ScrollResets != a.resets {
		a.resets = a.frame.ScrollResets
		a.scrollY = 0
	}
	a.clampScroll()
	a.refreshPage()
	return nil
}

// updateViewport reports window size and density changes to the session.
func (a *app) updateViewport(now time.Time) {
	if a.outsideW == 0 || a.outsideH == 0 {
		return
	}
	vp := render.Viewport{
		Size:       model.Size{Width: float64(a.outsideW), Height: float64(a.outsideH)},
		PixelRatio: a.scale,
		Compact:    a.compact,
	}
	if vp == a.viewport {
		return
	}
	a.viewport = vp
	a.s.SetViewport(now, vp)
	a.s.Input().SetControls([]model.BBox{model.NewBBox(0, 0, vp.Size.Width, hudHeight)})
}

func (a *app) updateTouches(now time.Time, in *input.Arbiter) {
	a.touches = ebiten.AppendTouchIDs(a.touches[:0])
	points := make([]model.Point, 0, len(a.touches))
	for _, id := range a.touches {
		x, y := ebiten.TouchPosition(id)
		points = append(points, a.css(float64(x), float64(y)))
	}

	if pressed := inpututil.AppendJustPressedTouchIDs(nil); len(pressed) > 0 {
		in.TouchStart(now, points)
	} else if len(points) > 0 {
		in.TouchMove(now, points)
	}

	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		in.TouchEnd(now, a.css(float64(x), float64(y)), len(a.touches))
	}
}

// css converts screen pixels to viewport coordinates.
func (a *app) css(x, y float64) model.Point {
	return model.Point{X: x / a.scale, Y: y / a.scale}
}

func (a *app) clampScroll() {
	overflow := float64(a.frame.Render.Layout.DisplayHeight) - a.viewport.Size.Height
	a.scrollY = math.Max(0, math.Min(a.scrollY, math.Max(0, overflow)))
}

// refreshPage uploads the composed page when the raster or highlighted word
// changes.
func (a *app) refreshPage() {
	r := a.frame.Render
	if r.Raster == nil {
		return
	}
	hl := -1
	if a.frame.Highlight != nil {
		hl = a.frame.Highlight.Index
	}
	if a.page != nil && r.Generation == a.shownGen && hl == a.shownHL {
		return
	}

	pic := a.s.Picture(a.frame)
	b := pic.Bounds()
	if a.page == nil || a.page.Bounds().Size() != b.Size() {
		if a.page != nil {
			a.page.Deallocate()
		}
		a.page = ebiten.NewImage(b.Dx(), b.Dy())
	}
	a.page.WritePixels(pic.Pix)
	a.shownGen, a.shownHL = r.Generation, hl
}

func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)
	if a.loadErr != nil {
		a.drawLoadError(screen)
		return
	}

	r := a.frame.Render
	if a.page != nil && r.Layout.DisplayWidth > 0 {
		// Raster pixels to screen pixels.
		k := float64(r.Layout.DisplayWidth) * a.scale / float64(a.page.Bounds().Dx())
		w := float64(r.Layout.DisplayWidth) * a.scale
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(k, k)
		op.GeoM.Translate(math.Max(0, (float64(screen.Bounds().Dx())-w)/2), -a.scrollY*a.scale)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(a.page, op)
	}

	if a.frame.Visibility.Visible || r.Err != nil {
		a.drawHUD(screen)
	}
}

func (a *app) drawHUD(screen *ebiten.Image) {
	r := a.frame.Render
	p := a.frame.Pacer

	vector.DrawFilledRect(screen, 0, 0, float32(screen.Bounds().Dx()), float32(hudHeight*a.scale), hudFill, false)

	pacing := "off"
	switch {
	case p.Enabled && p.Paused:
		pacing = "paused"
	case p.Enabled:
		pacing = "on"
	}
	status := fmt.Sprintf("page %d/%d  zoom %.0f%%  %d wpm  pacer %s  %s",
		r.View.CurrentPage, r.View.PageCount, r.View.UserZoom*100, p.SpeedWPM, pacing, r.Status)
	ebitenutil.DebugPrintAt(screen, status, 8, 6)

	if r.Err != nil {
		ebitenutil.DebugPrintAt(screen, r.Err.Error(), 8, int(hudHeight*a.scale)+8)
	}
}

func (a *app) drawLoadError(screen *ebiten.Image) {
	x := 24
	y := screen.Bounds().Dy()/2 - 24
	ebitenutil.DebugPrintAt(screen, "This document could not be opened.", x, y)
	ebitenutil.DebugPrintAt(screen, a.loadErr.Error(), x, y+20)
	ebitenutil.DebugPrintAt(screen, "Press Escape to return to the library.", x, y+48)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.outsideW, a.outsideH = outsideWidth, outsideHeight
	if m := ebiten.Monitor(); m != nil {
		a.scale = m.DeviceScaleFactor()
	}
	if a.scale <= 0 {
		a.scale = 1
	}
	return int(math.Ceil(float64(outsideWidth) * a.scale)), int(math.Ceil(float64(outsideHeight) * a.scale))
}
