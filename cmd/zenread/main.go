// zenread - paced PDF reader
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tsawler/zenread"
	"github.com/tsawler/zenread/library"
	"github.com/tsawler/zenread/logging"
	"github.com/tsawler/zenread/render"
)

var (
	speed     = flag.Int("speed", 0, "pacer speed in words per minute (50-2000)")
	zoom      = flag.Float64("zoom", 1, "initial zoom (0.3-3.0)")
	pace      = flag.Bool("pace", false, "start with the pacer running")
	compact   = flag.Bool("compact", false, "use touch-first layout and timings")
	quality   = flag.Float64("quality", 0, "raster oversampling multiplier (0 = automatic)")
	mode      = flag.String("mode", "glow", "highlight mode: glow, underline or highlight")
	hlColor   = flag.String("color", "", "highlight color as #rgb or #rrggbb")
	ocrLang   = flag.String("ocr", "", "recognize text on scanned pages in this language (needs -tags ocr)")
	libPath   = flag.String("library", "", "library file (default: user config dir)")
	verbose   = flag.Bool("verbose", false, "log debug output to stderr")
	printHelp = flag.Bool("h", false, "print usage information")
	printVer  = flag.Bool("v", false, "print version information")
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "zenread version %s\n", version)
	fmt.Fprintf(os.Stderr, "Usage: zenread [options] <PDF-file>\n")
	fmt.Fprintf(os.Stderr, "\nKeys: left/right page, space pause, up/down speed, +/-/0 zoom,\n")
	fmt.Fprintf(os.Stderr, "      p pacer on/off, r restart page, f fullscreen, escape quit\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *printHelp {
		usage()
		os.Exit(0)
	}

	if *printVer {
		fmt.Println("zenread version " + version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving library: %v\n", err)
		}
	}()

	id := path
	if abs, err := filepath.Abs(path); err == nil {
		id = abs
	}

	r := zenread.Open(path).
		ID(id).
		Zoom(*zoom).
		Highlight(*mode, *hlColor).
		Library(store)
	if *speed != 0 {
		r = r.Speed(*speed)
	}
	if *pace {
		r = r.Pacing()
	}
	if *compact {
		r = r.Compact()
	}
	if *quality > 0 {
		r = r.Quality(*quality)
	}
	if *ocrLang != "" {
		r = r.OCR(*ocrLang)
	}
	if err := r.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := r.Start(ctx)
	var le *render.LoadError
	switch {
	case errors.As(err, &le):
		// Shown in the window; quitting returns to the library.
		return newApp(nil, le, *compact).Run()
	case err != nil:
		return err
	}
	defer s.Close()

	return newApp(s, nil, *compact).Run()
}

func openLibrary() (*library.Store, error) {
	path := *libPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config dir: %w", err)
		}
		path = filepath.Join(dir, "zenread", "library.json")
	}
	return library.Open(path)
}
