package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

func toBarItems[T int | float64](vals []T) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	}
}

// newComparisonChart plots the median time of every case next to the
// median of the previous run, when there is one.
func newComparisonChart(current []caseSummary, previous []*caseSummary) *charts.Bar {
	names := make([]string, len(current))
	now := make([]float64, len(current))
	before := make([]float64, len(current))
	havePrev := false
	for i, cs := range current {
		names[i] = cs.Name
		now[i] = cs.Millis.Median
		if previous[i] != nil {
			before[i] = previous[i].Millis.Median
			havePrev = true
		}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts("Median factorization time", "milliseconds per case")...)
	bar.SetXAxis(names).AddSeries("current", toBarItems(now))
	if havePrev {
		bar.AddSeries("previous", toBarItems(before))
	}
	return bar
}

func newHistogramChart(title string, values []float64, stats summaryStats) *charts.Bar {
	nbins := freedmanDiaconisBins(values)
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		xLabels[i] = fmt.Sprintf("%.2f", 0.5*(edges[i]+edges[i+1]))
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3fms, std=%.3fms, median=%.3fms, IQR=%.3fms",
		stats.Count, stats.Mean, stats.Std, stats.Median, stats.IQR)
	bar.SetGlobalOptions(globalOpts(title, subtitle)...)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// writeReport renders the HTML page and the JSON summaries into dir.
func writeReport(dir string, current []caseSummary, previous []*caseSummary, samples map[string][]float64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WithStack(err)
	}
	if err := saveJSON(filepath.Join(dir, "summary.json"), current); err != nil {
		return "", err
	}

	page := components.NewPage()
	page.AddCharts(newComparisonChart(current, previous))
	for _, cs := range current {
		if vals := samples[cs.Name]; len(vals) > 1 {
			page.AddCharts(newHistogramChart(cs.Name, vals, cs.Millis))
		}
	}

	htmlPath := filepath.Join(dir, "report.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return "", errors.Wrap(err, "render report")
	}
	return htmlPath, nil
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(path, b, 0o644))
}
