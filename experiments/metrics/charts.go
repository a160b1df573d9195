package metrics

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderCharts writes an HTML page with the results and game lengths of every
// match-up.
func RenderCharts(w io.Writer, title string, summaries []Summary) error {
	labels := make([]string, 0, len(summaries))
	winsA := make([]opts.BarData, 0, len(summaries))
	winsB := make([]opts.BarData, 0, len(summaries))
	draws := make([]opts.BarData, 0, len(summaries))
	unfinished := make([]opts.BarData, 0, len(summaries))
	lengths := make([]opts.LineData, 0, len(summaries))
	durations := make([]opts.LineData, 0, len(summaries))
	for _, s := range summaries {
		labels = append(labels, fmt.Sprintf("%d: %d vs %d", s.MatchUp, s.AgentA, s.AgentB))
		winsA = append(winsA, opts.BarData{Value: s.WinsA})
		winsB = append(winsB, opts.BarData{Value: s.WinsB})
		draws = append(draws, opts.BarData{Value: s.Draws})
		unfinished = append(unfinished, opts.BarData{Value: s.Unfinished})
		lengths = append(lengths, opts.LineData{Value: s.MeanMoves})
		durations = append(durations, opts.LineData{Value: s.MeanMoveMillis})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "results per match-up",
		}),
	)
	bar.SetXAxis(labels).
		AddSeries("side A wins", winsA).
		AddSeries("side B wins", winsB).
		AddSeries("draws", draws).
		AddSeries("unfinished", unfinished)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "game length and move time",
		}),
	)
	line.SetXAxis(labels).
		AddSeries("mean moves", lengths).
		AddSeries("mean move ms", durations)

	page := components.NewPage()
	page.AddCharts(
		bar,
		line,
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}
