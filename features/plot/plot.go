// Package plot renders recorded sessions as charts: a box plot of button
// hold spans and a scatter/line view of stick traces, written as HTML.
package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/markus-wa/xlogger/features/appdir"
	"github.com/markus-wa/xlogger/features/sessions"
)

// rightStickOffset shifts the right stick trace on the X axis so the two
// point clouds do not overlap.
const rightStickOffset = 2.5

// boxValues renders one press/release pair as box plot spread values
// [min, q1, median, q3, max]: the box body spans press to release.
func boxValues(e sessions.ButtonEvent) []float64 {
	return []float64{e.PressTime, e.PressTime, e.PressTime, e.ReleaseTime, e.ReleaseTime}
}

// groupByButton splits events into per-button groups with a deterministic
// button order.
func groupByButton(events []sessions.ButtonEvent) ([]string, map[string][]sessions.ButtonEvent) {
	groups := make(map[string][]sessions.ButtonEvent)

	for _, e := range events {
		groups[e.Button] = append(groups[e.Button], e)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, groups
}

// ButtonChart builds a box plot with one series per button and one box per
// completed press, positioned by press ordinal.
func ButtonChart(title string, events []sessions.ButtonEvent) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithYAxisOpts(opts.YAxis{Name: "seconds"}),
	)

	names, groups := groupByButton(events)

	presses := 0
	for _, g := range groups {
		if len(g) > presses {
			presses = len(g)
		}
	}

	axis := make([]string, presses)
	for i := range axis {
		axis[i] = strconv.Itoa(i + 1)
	}

	box.SetXAxis(axis)

	for _, name := range names {
		data := make([]opts.BoxPlotData, 0, len(groups[name]))
		for _, e := range groups[name] {
			data = append(data, opts.BoxPlotData{Value: boxValues(e)})
		}

		box.AddSeries(name, data)
	}

	return box
}

// stickPoints converts stick snapshots into left and right xy pairs, the
// right stick shifted by rightStickOffset.
func stickPoints(events []sessions.StickEvent) (left, right [][2]float64) {
	left = make([][2]float64, 0, len(events))
	right = make([][2]float64, 0, len(events))

	for _, e := range events {
		left = append(left, [2]float64{e.LeftX, e.LeftY})
		right = append(right, [2]float64{e.RightX + rightStickOffset, e.RightY})
	}

	return left, right
}

// StickChart builds the stick trace view. With lines set the samples are
// connected in time order, otherwise they render as points.
func StickChart(title string, events []sessions.StickEvent, lines bool) components.Charter {
	left, right := stickPoints(events)

	if lines {
		line := charts.NewLine()
		line.SetGlobalOptions(stickOptions(title)...)
		line.AddSeries("Left Stick", lineData(left))
		line.AddSeries("Right Stick", lineData(right))

		return line
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(stickOptions(title)...)
	scatter.AddSeries("Left Stick", scatterData(left))
	scatter.AddSeries("Right Stick", scatterData(right))

	return scatter
}

func stickOptions(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	}
}

func lineData(points [][2]float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.LineData{Value: []float64{p[0], p[1]}})
	}

	return data
}

func scatterData(points [][2]float64) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []float64{p[0], p[1]}, SymbolSize: 4})
	}

	return data
}

// RenderSession loads both session files of rec and writes a single HTML
// page with the button and stick charts. It returns the output path.
func RenderSession(rec sessions.Record, outDir string, lines bool) (string, error) {
	buttons, err := sessions.ReadButtons(rec.ButtonPath)
	if err != nil {
		return "", fmt.Errorf("failed to load button data: %w", err)
	}

	sticks, err := sessions.ReadSticks(rec.StickPath)
	if err != nil {
		return "", fmt.Errorf("failed to load stick data: %w", err)
	}

	err = appdir.Ensure(outDir)
	if err != nil {
		return "", fmt.Errorf("failed to create plot directory: %w", err)
	}

	name := fmt.Sprintf("session_%d_%s.html", rec.ID, rec.StartedAt.Format("2006-01-02_15-04-05"))
	outPath := filepath.Join(outDir, name)

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create plot file: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(
		ButtonChart(fmt.Sprintf("%s button presses", rec.Device), buttons),
		StickChart(fmt.Sprintf("%s stick movement", rec.Device), sticks, lines),
	)

	err = page.Render(f)
	if err != nil {
		return "", fmt.Errorf("failed to render plots: %w", err)
	}

	return outPath, nil
}
