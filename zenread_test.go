package zenread

import (
	"context"
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tsawler/zenread/library"
	"github.com/tsawler/zenread/model"
	"github.com/tsawler/zenread/overlay"
	"github.com/tsawler/zenread/render"
	"github.com/tsawler/zenread/session"
)

// fakeRenderer serves a document of identical pages, each holding one line
// of text.
type fakeRenderer struct {
	pages int
	err   error
}

func (f fakeRenderer) Open(_ context.Context, _ string) (render.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return fakeDoc{pages: f.pages}, nil
}

type fakeDoc struct{ pages int }

func (d fakeDoc) PageCount() int { return d.pages }

func (d fakeDoc) PageSize(context.Context, int) (model.Size, error) {
	return model.Size{Width: 400, Height: 600}, nil
}

func (d fakeDoc) RenderPage(ctx context.Context, req model.PageRenderRequest) (*render.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := int(math.Floor(400 * req.Scale))
	h := int(math.Floor(600 * req.Scale))
	return &render.Page{
		Raster:    image.NewRGBA(image.Rect(0, 0, w, h)),
		Transform: model.Viewport(model.NewBBox(0, 0, 400, 600), req.Scale),
		Fragments: []model.Fragment{{
			Text:      "slow steady reading",
			Transform: model.Matrix{12, 0, 0, 12, 40, 500},
			Width:     120,
		}},
	}, nil
}

func (d fakeDoc) Close() error { return nil }

func TestStartWithoutPath(t *testing.T) {
	_, err := Open("").Start(context.Background())
	if err == nil {
		t.Error("expected error for empty path")
	}
}

func TestStartMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf")).Start(context.Background())
	var le *render.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *render.LoadError, got %v", err)
	}
}

func TestStartRendererError(t *testing.T) {
	_, err := Open("book.pdf").
		Renderer(fakeRenderer{err: os.ErrNotExist}).
		Start(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestChainImmutability(t *testing.T) {
	base := Open("book.pdf")
	fast := base.Speed(600).Pacing()
	slow := base.Speed(120)

	if base.options.speed != 0 || base.options.pacing {
		t.Error("base reader should keep default pacer options")
	}
	if fast.options.speed != 600 || !fast.options.pacing {
		t.Error("fast reader should have speed 600 and pacing")
	}
	if slow.options.speed != 120 || slow.options.pacing {
		t.Error("slow reader should have speed 120 without pacing")
	}

	a := base.Controls(model.NewBBox(0, 0, 10, 10))
	b := a.Controls(model.NewBBox(20, 0, 10, 10))
	if len(a.options.controls) != 1 || len(b.options.controls) != 2 {
		t.Errorf("controls leaked between readers: %d, %d", len(a.options.controls), len(b.options.controls))
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		r    *Reader
	}{
		{"zero zoom", Open("book.pdf").Zoom(0)},
		{"NaN zoom", Open("book.pdf").Zoom(math.NaN())},
		{"negative quality", Open("book.pdf").Quality(-1)},
		{"bad mode", Open("book.pdf").Highlight("sparkle", "")},
		{"bad color", Open("book.pdf").Highlight("glow", "#12")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.r.Err() == nil {
				t.Fatal("expected configuration error")
			}
			// Later options do not clear the error.
			r := tt.r.Speed(300).Renderer(fakeRenderer{pages: 1})
			if _, err := r.Start(context.Background()); err == nil {
				t.Error("expected Start to fail")
			}
		})
	}
}

func TestHighlightStyle(t *testing.T) {
	r := Open("book.pdf").Highlight("underline", "#00ff00")
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := r.Style()
	if s.Mode != overlay.Underline {
		t.Errorf("expected underline mode, got %v", s.Mode)
	}
	if s.Line.G != 255 || s.Line.R != 0 {
		t.Errorf("expected green line, got %+v", s.Line)
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	s, err := Open("book.pdf").
		Renderer(fakeRenderer{pages: 3}).
		Viewport(800, 600, 1).
		Speed(300).
		Pacing().
		Start(ctx)
	if err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	defer s.Close()

	if s.ID() != "book.pdf" {
		t.Errorf("expected id to default to path, got %q", s.ID())
	}

	if pic := s.Picture(session.Frame{}); pic != nil {
		t.Error("expected no picture without a raster")
	}

	now := time.Now()
	s.Frame(now)
	if err := s.Await(ctx); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	f := s.Frame(now.Add(16 * time.Millisecond))
	if f.Render.Status != render.Ready {
		t.Fatalf("expected ready, got %v", f.Render.Status)
	}
	if len(f.Render.Tokens) != 3 {
		t.Errorf("expected 3 tokens, got %d", len(f.Render.Tokens))
	}
	if f.Highlight == nil {
		t.Fatal("expected the pacer to highlight the first word")
	}

	pic := s.Picture(f)
	if pic == nil || pic.Bounds() != f.Render.Raster.Bounds() {
		t.Fatal("expected a picture the size of the raster")
	}
	if pic == f.Render.Raster {
		t.Error("picture must not alias the raster")
	}

	l := f.Render.Layout
	if l.Oversample <= 1 {
		t.Fatalf("expected an oversampled raster, got %v", l.Oversample)
	}
	small := s.DisplayPicture(f)
	if got, want := small.Bounds(), image.Rect(0, 0, l.DisplayWidth, l.DisplayHeight); got != want {
		t.Errorf("display picture bounds = %v, want %v", got, want)
	}
	if small.Bounds().Dx() >= pic.Bounds().Dx() {
		t.Error("display picture should be smaller than the raster")
	}
}

func TestSessionWithLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	store, err := library.Open(path)
	if err != nil {
		t.Fatalf("failed to open library: %v", err)
	}
	defer store.Close()
	store.SetLastPage("book-1", 2)

	s, err := Open("book.pdf").
		ID("book-1").
		Renderer(fakeRenderer{pages: 4}).
		Library(store).
		Start(context.Background())
	if err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	if got := s.View().CurrentPage; got != 2 {
		t.Errorf("expected to resume on page 2, got %d", got)
	}
	s.GoToPage(3)
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if got := store.LastPage("book-1"); got != 3 {
		t.Errorf("expected last page 3, got %d", got)
	}
}

func TestMust(t *testing.T) {
	// Test Must with successful result
	result := Must("hello", nil)
	if result != "hello" {
		t.Errorf("expected 'hello', got %q", result)
	}

	// Test Must with error (should panic)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Must to panic on error")
		}
	}()
	Must("", os.ErrNotExist)
}
