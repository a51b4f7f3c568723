package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vovakirdan/arcade-gym/internal/qlearn"
)

// smoothing is the moving-average window of the trend series.
const smoothing = 20

// WriteChart renders per-episode reward, its moving average and the
// exploration rate as a standalone HTML page.
func WriteChart(w io.Writer, title string, episodes []qlearn.EpisodeStats) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d episodes", len(episodes)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Theme:     "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "reward"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "epsilon", Min: 0, Max: 1})

	xs := make([]string, len(episodes))
	rewards := make([]opts.LineData, len(episodes))
	trend := make([]opts.LineData, len(episodes))
	eps := make([]opts.LineData, len(episodes))
	window := 0.0
	for i, e := range episodes {
		xs[i] = strconv.Itoa(e.Episode)
		rewards[i] = opts.LineData{Value: e.Reward}
		eps[i] = opts.LineData{Value: e.Epsilon}

		window += e.Reward
		if i >= smoothing {
			window -= episodes[i-smoothing].Reward
		}
		trend[i] = opts.LineData{Value: window / float64(min(i+1, smoothing))}
	}

	line.SetXAxis(xs).
		AddSeries("reward", rewards).
		AddSeries(fmt.Sprintf("reward (avg %d)", smoothing), trend).
		AddSeries("epsilon", eps, charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("report: render chart: %w", err)
	}
	return nil
}

// SaveChart writes the chart to path, creating parent directories.
func SaveChart(path, title string, episodes []qlearn.EpisodeStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := WriteChart(f, title, episodes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
