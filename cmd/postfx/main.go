// Command postfx applies the foveated blur to an existing image.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"foveal-renderer/internal/display"
	"foveal-renderer/internal/imageio"
	"foveal-renderer/internal/logging"
	"foveal-renderer/internal/postprocess"
	"foveal-renderer/internal/raster"
)

func main() {
	in := flag.String("in", "", "Input image (png, jpeg, bmp, tga, webp)")
	out := flag.String("out", "", "Output image; format from extension")
	gazeFlag := flag.String("gaze", "", "Gaze point x,y in pixels (default: image center)")
	pitch := flag.Float64("pitch", 0.25, "Pixel pitch in mm")
	distance := flag.Float64("distance", 500, "Viewer distance in mm")
	e1 := flag.Float64("e1", 3, "Foveal eccentricity threshold in degrees")
	e2 := flag.Float64("e2", 8, "Middle layer eccentricity threshold in degrees")
	verbose := flag.Bool("v", false, "Verbose (debug) logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "Usage: postfx -in image.png -out blurred.webp [-gaze x,y]")
		os.Exit(2)
	}

	if err := run(*in, *out, *gazeFlag, *pitch, *distance, *e1, *e2); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out, gazeFlag string, pitch, distance, e1, e2 float64) error {
	img, err := imageio.Load(in)
	if err != nil {
		return err
	}
	b := img.Bounds()
	p, err := display.NewParameters(b.Dx(), b.Dy(), pitch, distance)
	if err != nil {
		return err
	}

	gaze := p.Center()
	if gazeFlag != "" {
		if gaze, err = display.ParseGaze(gazeFlag); err != nil {
			return err
		}
	}

	blur, err := postprocess.NewFoveatedBlur(postprocess.FoveationConfig{
		E1:      e1,
		E2:      e2,
		PixelVA: p.PixelVisualAngle(),
	})
	if err != nil {
		return err
	}

	fb := blur.Apply(raster.FromImage(img), gaze)
	if err := imageio.Save(out, fb.NRGBA()); err != nil {
		return err
	}
	logging.Logger().Info("postfx: wrote", "path", out, "gaze_x", gaze.X, "gaze_y", gaze.Y,
		"deg_per_px", p.PixelVisualAngle())
	return nil
}
