// Command diagnostics renders an HTML report of proof-directory disk usage
// across proof levels for a given exponent, an operator-facing sizing aid
// ahead of a real run (spec §4.3's DiskUsageGB heuristic).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mersproof/checkpoint"
)

func diskUsageChart(E uint64) *charts.Line {
	xLabels := make([]string, 0, 11)
	points := make([]opts.LineData, 0, 11)
	for power := 2; power <= 12; power++ {
		xLabels = append(xLabels, fmt.Sprintf("%d", power))
		points = append(points, opts.LineData{Value: checkpoint.DiskUsageGB(E, power)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Proof disk usage vs. power, E=%d", E),
			Subtitle: "ldexp(E, power-33) * 1.05 GiB",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "GiB"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "power"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xLabels).AddSeries("disk usage (GiB)", points)
	return line
}

func main() {
	exponent := flag.Uint64("E", 100_000_000, "exponent to size the proof directory for")
	outDir := flag.String("out", "diagnostics_reports", "output directory for the HTML report")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("diagnostics: mkdir %s: %v", *outDir, err)
	}

	recommended := checkpoint.BestPower(*exponent)
	fmt.Printf("diagnostics: BestPower(%d) = %d\n", *exponent, recommended)

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("disk_usage_%d.html", *exponent))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("diagnostics: create %s: %v", htmlPath, err)
	}
	defer f.Close()

	if err := diskUsageChart(*exponent).Render(f); err != nil {
		log.Fatalf("diagnostics: render: %v", err)
	}
	fmt.Println("diagnostics: report written to", htmlPath)
}
