// Command gorain builds a resampling library from an observed precipitation
// record and generates synthetic water years from it.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/darshanbaral/gorain/internal/catalog"
	"github.com/darshanbaral/gorain/internal/dist"
	"github.com/darshanbaral/gorain/internal/library"
	"github.com/darshanbaral/gorain/internal/log"
	"github.com/darshanbaral/gorain/internal/observed"
	"github.com/darshanbaral/gorain/pkg/config"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to YAML run configuration (overrides most flags)")
		input        = flag.String("input", "", "Path to observed rainfall CSV")
		datetimeCol  = flag.String("datetime-col", "datetime", "Name of the datetime column")
		rainCol      = flag.String("rain-col", "P", "Name of the rainfall column")
		layout       = flag.String("layout", "", "Datetime parse layout (auto-detected when empty)")
		yearStart    = flag.Int("year-start", 9, "Month the water year starts in (1-12)")
		dryFraction  = flag.Float64("dry", 0.25, "Dry-year percentile fraction")
		wetFraction  = flag.Float64("wet", 0.75, "Wet-year percentile fraction")
		count        = flag.Int("count", 100, "Number of synthetic water years")
		distName     = flag.String("dist", "gamma", "Distribution for annual totals")
		blockLow     = flag.Duration("block-low", 6*time.Hour, "Lower bound of block duration")
		blockHigh    = flag.Duration("block-high", 7*24*time.Hour, "Upper bound of block duration")
		parallelism  = flag.Int("parallelism", 1, "Number of concurrent sampling workers")
		seed         = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
		digits       = flag.Int("digits", 2, "Rounding precision of generated depths")
		outDir       = flag.String("out", ".", "Output directory")
		prefix       = flag.String("prefix", "", "Prefix for output file names")
		skipInfo     = flag.Bool("skip-info", false, "Do not write the metadata file")
		snapshotPath = flag.String("snapshot", "", "Write a library snapshot to this path")
		loadSnapshot = flag.String("load-snapshot", "", "Build the library from a snapshot instead of a CSV")
		catalogPath  = flag.String("catalog", "", "Record the run in this SQLite catalog")
		debug        = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		bounds, _ := cfg.BlockBounds()
		*input = cfg.Input.Path
		*datetimeCol = cfg.Input.DatetimeColumn
		*rainCol = cfg.Input.RainColumn
		*layout = cfg.Input.Layout
		*yearStart = cfg.Library.YearStart
		*dryFraction = cfg.Library.DryFraction
		*wetFraction = cfg.Library.WetFraction
		*count = cfg.Generate.Count
		*distName = cfg.Generate.Distribution
		*blockLow = bounds[0]
		*blockHigh = bounds[1]
		*parallelism = cfg.Generate.Parallelism
		if cfg.Generate.Seed != 0 {
			*seed = cfg.Generate.Seed
		}
		*digits = cfg.Generate.Digits
		*outDir = cfg.Output.Dir
		*prefix = cfg.Output.Prefix
		*skipInfo = cfg.Output.SkipInfo
		*snapshotPath = cfg.Output.Snapshot
		*catalogPath = cfg.Output.Catalog
	}

	lib, err := buildLibrary(*loadSnapshot, *input, observed.ReadOptions{
		DatetimeColumn: *datetimeCol,
		RainColumn:     *rainCol,
		Layout:         *layout,
	}, library.Options{
		YearStart:   *yearStart,
		DryFraction: *dryFraction,
		WetFraction: *wetFraction,
	})
	if err != nil {
		log.Fatalf("build library: %v", err)
	}
	log.Infof("library ready: %d water years, dry break %.2f, wet break %.2f",
		lib.Table().Cols(), lib.DryBreak(), lib.WetBreak())

	if *snapshotPath != "" {
		if err := lib.SaveSnapshot(*snapshotPath); err != nil {
			log.Fatalf("save snapshot: %v", err)
		}
		log.Infof("library snapshot written to %s", *snapshotPath)
	}

	rain, err := lib.Generate(library.GenerateOptions{
		Count:       *count,
		Dist:        dist.Name(*distName),
		BlockLow:    *blockLow,
		BlockHigh:   *blockHigh,
		Parallelism: *parallelism,
		Seed:        *seed,
		NDigits:     *digits,
	})
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	log.Infof("generated %d synthetic water years (dist=%s seed=%d)", *count, *distName, *seed)

	if err := rain.Save(*outDir, *prefix, !*skipInfo, *digits); err != nil {
		log.Fatalf("save results: %v", err)
	}
	log.Infof("results written to %s", *outDir)

	if *catalogPath != "" {
		cat, err := catalog.Open(*catalogPath)
		if err != nil {
			log.Fatalf("open catalog: %v", err)
		}
		defer cat.Close()
		id, err := cat.Record(rain)
		if err != nil {
			log.Fatalf("record run: %v", err)
		}
		log.Infof("run recorded in catalog as %s", id)
	}
}

func buildLibrary(snapshotPath, inputPath string, readOpts observed.ReadOptions, libOpts library.Options) (*library.Library, error) {
	if snapshotPath != "" {
		return library.LoadSnapshot(snapshotPath)
	}
	if inputPath == "" {
		return nil, fmt.Errorf("either -input or -load-snapshot is required")
	}
	series, err := observed.ReadFile(inputPath, readOpts)
	if err != nil {
		return nil, fmt.Errorf("read observed record: %w", err)
	}
	table, err := series.Pivot(libOpts.YearStart)
	if err != nil {
		return nil, fmt.Errorf("pivot to water years: %w", err)
	}
	return library.New(table, libOpts)
}
