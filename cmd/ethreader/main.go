// ethreader prints the viewer's three aggregations as text, for terminals
// and scripts where a window is not wanted.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dudukav/eth-analyzer/src/analysis"
	"github.com/dudukav/eth-analyzer/src/records"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()
	records.SetLogLevel(logLevel)

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <anomalies.csv> <patterns.csv>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	anomalies, err := records.LoadAnomalies(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	patterns, err := records.LoadPatterns(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	records.Normalize(anomalies)
	records.NormalizePatterns(patterns)

	fmt.Printf("Anomalies: %d rows\n", len(anomalies))
	for _, c := range analysis.CountByTypeSeverity(anomalies) {
		fmt.Printf("  %s/%s: %d\n", c.TypeName, c.Severity, c.Count)
	}

	fmt.Printf("Patterns: %d rows\n", len(patterns))
	for _, c := range analysis.PatternTypeCounts(patterns) {
		fmt.Printf("  %s: %d\n", c.TypeName, c.Count)
	}

	series := analysis.LastHourSeries(anomalies)
	if len(series) == 0 {
		fmt.Println("Last hour: no rows with a parseable timestamp")
		return
	}
	first := series[0].TimeSec
	last := series[len(series)-1].TimeSec
	fmt.Printf("Last hour: %d (second, type) buckets between %s and %s\n",
		len(series), first.Format("15:04:05"), last.Format("15:04:05"))
	for _, p := range series {
		fmt.Printf("  %s %s: %d\n", p.TimeSec.Format("15:04:05"), p.TypeName, p.Count)
	}
}
