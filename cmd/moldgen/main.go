// Command moldgen builds a nozzle and grain casting mold and writes its
// solids as STL files.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soypat/nozzle/kernel"
	"github.com/soypat/nozzle/mold"
	"github.com/soypat/nozzle/render"
)

func main() {
	def := mold.DefaultConfig()
	var (
		output   = flag.String("o", "mold", "output directory")
		script   = flag.String("config", "", "zygomys configuration script")
		solids   = flag.String("solids", "", "comma separated solids to export, all if empty")
		maxEdge  = flag.Float64("edge", def.MeshMaxEdge, "mesh cube edge length in mm")
		material = flag.String("material", "", "cast material to compensate shrinkage for (pla, petg, abs)")
		chart    = flag.Bool("plot", true, "write profile.png chart and sheet.png drawing")
		preview  = flag.Bool("preview", false, "render a PNG preview of every STL")
		verbose  = flag.Bool("v", false, "log pipeline steps")
	)
	flag.Parse()
	if *verbose {
		mold.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := def
	if *script != "" {
		src, err := os.ReadFile(*script)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err = mold.LoadScript(string(src), cfg)
		if err != nil {
			log.Fatal(err)
		}
	}
	// Flags given on the command line take precedence over the script.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "material":
			cfg.Material = *material
		case "edge":
			cfg.MeshMaxEdge = *maxEdge
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	a, err := mold.Assemble(kernel.New(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s assembled in %s", a.Profile, time.Since(start).Round(time.Millisecond))
	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatal(err)
	}
	if *chart {
		outlines := a.Outlines()
		if err := render.PlotOutlines(filepath.Join(*output, "profile.png"), "Mold profiles", outlines...); err != nil {
			log.Fatal(err)
		}
		if err := render.DrawSheet(filepath.Join(*output, "sheet.png"), 1600, outlines...); err != nil {
			log.Fatal(err)
		}
	}

	var names []string
	if *solids != "" {
		names = strings.Split(*solids, ",")
	}
	start = time.Now()
	paths, err := a.Export(*output, cfg.MeshMaxEdge, names...)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d solids meshed in %s", len(paths), time.Since(start).Round(time.Millisecond))
	for _, path := range paths {
		if !*preview {
			log.Println("wrote", path)
			continue
		}
		png := strings.TrimSuffix(path, ".stl") + ".png"
		if err := render.STLToPNG(path, png, render.DefaultView); err != nil {
			log.Fatal(err)
		}
		log.Println("wrote", path, png)
	}
}
