package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"foveal-renderer/internal/batch"
	"foveal-renderer/internal/config"
	"foveal-renderer/internal/display"
	"foveal-renderer/internal/logging"
	"foveal-renderer/internal/parallel"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .toml, .yaml)")
	outputDir := flag.String("output", "", "Output directory (default: frames)")
	frames := flag.Int("frames", 0, "Number of frames in the gaze sweep (default: 8)")
	workers := flag.Int("workers", 0, "Number of frame workers (default: NumCPU)")
	format := flag.String("format", "", "Image format: webp, png, bmp, tga, jpeg (default: webp)")
	gazeFlag := flag.String("gaze", "", "Pin the gaze to x,y window pixels instead of sweeping")
	effects := flag.String("effects", "", "Comma-separated post effects: dof,foveated or none")
	shade := flag.String("shade", "", "Shading mode: phong or gouraud (default: phong)")
	verbose := flag.Bool("v", false, "Verbose (debug) logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	var gaze *[2]float64
	if *gazeFlag != "" {
		g, err := display.ParseGaze(*gazeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		gaze = &[2]float64{g.X, g.Y}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Workers:   *workers,
		Frames:    *frames,
		Format:    *format,
		ShadeMode: *shade,
		Effects:   *effects,
		Gaze:      gaze,
	})

	settings, err := cfg.Validate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Frames already run concurrently; split the pixel loops across what
	// is left.
	parallel.SetWorkers(max(parallel.Workers()/settings.Workers, 1))

	fmt.Printf("Foveated renderer → %s\n", settings.Format)
	fmt.Printf("Display: %dx%d px, %.3f mm pitch, %.0f mm viewer distance\n",
		settings.Display.CanvasWidth, settings.Display.CanvasHeight,
		settings.Display.PixelPitch, settings.Display.DistanceScreenViewer)
	fmt.Printf("Frames: %d, Workers: %d, Shading: %s, Effects: %s\n",
		settings.Frames, settings.Workers, settings.Mode, strings.Join(cfg.Effects, ","))
	fmt.Printf("Output: %s\n", settings.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	results, err := batch.Run(ctx, batch.Config{
		Settings: settings,
		Scene:    batch.DemoScene(settings.Material),
	}, batch.Plan(settings))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, e := range failed[:min(len(failed), 20)] {
			fmt.Printf("  frame %d: %s\n", e.Index, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(settings.OutputDir, "manifest.json")
	if err := os.MkdirAll(settings.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
