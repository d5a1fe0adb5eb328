// Command roadspline evaluates a road description file and generates the
// road body and edge meshes for every road it declares.
//
// Usage:
//
//	roadspline [-json] [-v] [-png out.png [-debug]] file.road
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/chazu/roadspline/pkg/preview"
	"github.com/chazu/roadspline/pkg/tessellate"
)

func main() {
	asJSON := flag.Bool("json", false, "write the full result, including mesh data, as JSON")
	verbose := flag.Bool("v", false, "log generation details to stderr")
	pngPath := flag.String("png", "", "write a top-down preview image to this file")
	debug := flag.Bool("debug", false, "draw centerline and cross-section lines in the preview")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-json] [-v] [-png out.png [-debug]] file.road\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		tessellate.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read %s: %v", flag.Arg(0), err)
	}

	app := NewApp()
	result := app.Evaluate(string(source))
	if *asJSON {
		err = writeJSON(os.Stdout, result)
	} else {
		err = writeSummary(os.Stdout, result)
	}
	if err != nil {
		log.Fatalf("write result: %v", err)
	}
	if *pngPath != "" && len(result.Meshes) > 0 {
		if err := writePreview(app, result, *debug, *pngPath); err != nil {
			log.Fatalf("preview: %v", err)
		}
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func writePreview(app *App, result EvalResult, debug bool, path string) error {
	img, err := app.Preview(result, debug, preview.DefaultOptions())
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, result EvalResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// writeSummary prints one line per road, then warnings and errors.
func writeSummary(w io.Writer, result EvalResult) error {
	for _, r := range result.Roads {
		topology := "open"
		if r.Closed {
			topology = "closed"
		}
		if _, err := fmt.Fprintf(w, "%s: %s, %d samples, %d segments, %d triangles\n",
			r.Name, topology, r.Samples, r.Segments, r.Triangles); err != nil {
			return err
		}
	}
	for _, m := range result.Meshes {
		if _, err := fmt.Fprintf(w, "  %-16s %6d vertices %6d triangles\n",
			m.PartName, len(m.Vertices)/3, len(m.Indices)/3); err != nil {
			return err
		}
	}
	for _, e := range result.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", e.Message); err != nil {
			return err
		}
	}
	for _, e := range result.Errors {
		msg := e.Message
		if e.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
		}
		if _, err := fmt.Fprintf(w, "error: %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
