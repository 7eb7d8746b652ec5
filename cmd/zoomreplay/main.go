// Command zoomreplay plays a scripted gesture sequence through the zoom
// controller and prints the settled transform after each step.
package main

import (
	"flag"
	"fmt"
	goimage "image"
	"image/png"
	"os"

	zvimage "zoomview/internal/image"
	"zoomview/internal/replay"
	"zoomview/internal/zoom"
	"zoomview/ui/canvas"
)

func main() {
	scriptPath := flag.String("script", "", "Path to gesture script (YAML)")
	imagePath := flag.String("image", "", "Image to render (defaults to a checkerboard)")
	outPath := flag.String("png", "", "Write the final frame to this PNG file")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Println("Usage: zoomreplay -script <path> [-image <path>] [-png out.png]")
		os.Exit(1)
	}

	script, err := replay.Load(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load script: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Surface: %.0fx%.0f, preset %q, %d steps\n\n", script.Width, script.Height, script.Preset, len(script.Steps))

	frames, err := replay.Run(script, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}

	if *outPath == "" || len(frames) == 0 {
		return
	}

	var img goimage.Image = zvimage.Placeholder(int(script.Width), int(script.Height), 32)
	if *imagePath != "" {
		if img, err = zvimage.Load(*imagePath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
			os.Exit(1)
		}
	}

	last := frames[len(frames)-1]
	w, h := int(script.Width), int(script.Height)
	surface := zoom.Geometry{Width: script.Width, Height: script.Height}
	out := canvas.Rasterize(img, w, h, canvas.PixelTransform(last.Transform, surface, w, h))

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", *outPath)
}
