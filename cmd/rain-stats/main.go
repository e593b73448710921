// Command rain-stats prints exploratory statistics for a saved rainfall
// table: exceedance curves, wet-period counts, and per-year summaries.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/darshanbaral/gorain/internal/analysis"
	"github.com/darshanbaral/gorain/internal/synthetic"
)

func main() {
	var (
		dataPath = flag.String("data", "", "Path to a saved rainfall table CSV")
		infoPath = flag.String("info", "", "Optional metadata file for the table")
		windows  = flag.String("windows", "24h,72h,168h", "Comma-separated rolling windows for exceedance")
		probs    = flag.String("probs", "", "Comma-separated exceedance probabilities to interpolate")
		period   = flag.Duration("wet-period", 24*time.Hour, "Period duration for wet-period counts")
		summary  = flag.String("summary", "sum", "Per-year summary statistic (sum, mean, max, min, count)")
		digits   = flag.Int("digits", 2, "Rounding precision")
	)
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "-data is required")
		os.Exit(1)
	}

	rain, err := synthetic.Load(*dataPath, *infoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading table: %v\n", err)
		os.Exit(1)
	}
	table := rain.Table

	fmt.Printf("Table: %d rows x %d water years, time step %s\n\n", table.Rows(), table.Cols(), table.TimeStep)

	ws, err := parseWindows(*windows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing windows: %v\n", err)
		os.Exit(1)
	}
	curves, err := analysis.Exceedance(table, ws, *digits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing exceedance: %v\n", err)
		os.Exit(1)
	}
	printExceedance(curves, *probs)

	counts, err := analysis.WetPeriods(table, *period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error counting wet periods: %v\n", err)
		os.Exit(1)
	}
	printPerYear(table.Years, intsToFloats(counts), fmt.Sprintf("Wet %s periods per water year", *period), 0)

	stats, err := analysis.Summary(table, analysis.Stat(*summary))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error summarizing: %v\n", err)
		os.Exit(1)
	}
	printPerYear(table.Years, stats, fmt.Sprintf("Per-year %s", *summary), *digits)
}

func parseWindows(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(s, ",") {
		d, err := time.ParseDuration(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func printExceedance(curves []analysis.Curve, probsArg string) {
	fmt.Println("Exceedance of rolling-window annual maxima")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	if probsArg != "" {
		fmt.Fprint(w, "prob")
		for _, c := range curves {
			fmt.Fprintf(w, "\t%s", c.Window)
		}
		fmt.Fprintln(w)
		for _, part := range strings.Split(probsArg, ",") {
			p, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing probability %q: %v\n", part, err)
				os.Exit(1)
			}
			fmt.Fprintf(w, "%.3f", p)
			for _, c := range curves {
				fmt.Fprintf(w, "\t%.2f", c.At(p))
			}
			fmt.Fprintln(w)
		}
		w.Flush()
		fmt.Println()
		return
	}

	for _, c := range curves {
		fmt.Fprintf(w, "window %s\tdepth\tprob\n", c.Window)
		for i := range c.Values {
			fmt.Fprintf(w, "\t%.2f\t%.3f\n", c.Values[i], c.Probs[i])
		}
	}
	w.Flush()
	fmt.Println()
}

func printPerYear(years []int, values []float64, title string, digits int) {
	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "year\tvalue")
	for i, y := range years {
		fmt.Fprintf(w, "%d\t%.*f\n", y, digits, values[i])
	}
	w.Flush()
	fmt.Println()
}

func intsToFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
