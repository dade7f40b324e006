package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/pkg/errors"

	"MarketSignal/internal/model"
	"MarketSignal/internal/strategy"
)

const (
	width  = "1600px"
	height = "420px"
)

// gap is how ECharts spells a missing point.
const gap = "-"

func lineData(s model.Series) []opts.LineData {
	out := make([]opts.LineData, len(s))
	for i, v := range s {
		if v.Valid() {
			out[i] = opts.LineData{Value: v.Float}
		} else {
			out[i] = opts.LineData{Value: gap}
		}
	}
	return out
}

func barData(s model.Series) []opts.BarData {
	out := make([]opts.BarData, len(s))
	for i, v := range s {
		if v.Valid() {
			out[i] = opts.BarData{Value: v.Float}
		} else {
			out[i] = opts.BarData{Value: gap}
		}
	}
	return out
}

func globals(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "MarketSignal",
			Width:     width,
			Height:    height,
			Theme:     types.ThemeInfographic,
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Start:      0,
			End:        100,
			Throttle:   16.666,
			XAxisIndex: []int{0},
			Type:       "inside",
		}),
	}
}

// Render writes an HTML page with price, MACD and oscillator panels for one report.
func Render(w io.Writer, r *model.Report) error {
	if r == nil || r.Indicators == nil || r.Indicators.Source == nil {
		return errors.New("chart: report has no indicator data")
	}
	set := r.Indicators
	ts := set.Source

	x := make([]string, ts.Len())
	candles := make([]opts.KlineData, ts.Len())
	for i := 0; i < ts.Len(); i++ {
		b := ts.Bar(i)
		x[i] = b.Time.Format("2006-01-02 15:04")
		candles[i] = opts.KlineData{Value: []float64{b.Open, b.Close, b.Low, b.High}}
	}

	title := r.Symbol
	if r.Signal != nil {
		title += " | " + string(r.Signal.Verdict)
	}

	price := charts.NewKLine()
	price.SetGlobalOptions(globals(title)...)
	price.SetXAxis(x).
		AddSeries("Price", candles).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:        "#00000000",
				Color0:       "#00000000",
				BorderColor:  "#00AA00",
				BorderColor0: "#DD0000",
			}),
		)
	overlay := charts.NewLine()
	overlay.SetXAxis(x).
		AddSeries("SMA", lineData(set.SMA)).
		AddSeries("EMA", lineData(set.EMA)).
		AddSeries("Bollinger (upper)", lineData(set.Bollinger.Upper)).
		AddSeries("Bollinger (middle)", lineData(set.Bollinger.Middle)).
		AddSeries("Bollinger (lower)", lineData(set.Bollinger.Lower))
	price.Overlap(overlay)

	macd := charts.NewBar()
	macd.SetGlobalOptions(globals("MACD")...)
	macd.SetXAxis(x).AddSeries("Histogram", barData(set.MACD.Histogram))
	macdLines := charts.NewLine()
	macdLines.SetXAxis(x).
		AddSeries("MACD", lineData(set.MACD.Line)).
		AddSeries("Signal", lineData(set.MACD.Signal))
	macd.Overlap(macdLines)

	osc := charts.NewLine()
	osc.SetGlobalOptions(globals("Oscillators")...)
	osc.SetXAxis(x).
		AddSeries("RSI", lineData(set.RSI),
			charts.WithMarkLineNameYAxisItemOpts(
				opts.MarkLineNameYAxisItem{Name: "oversold", YAxis: strategy.RSIOversold},
				opts.MarkLineNameYAxisItem{Name: "overbought", YAxis: strategy.RSIOverbought},
			)).
		AddSeries("%K", lineData(set.Stochastic.K)).
		AddSeries("%D", lineData(set.Stochastic.D)).
		AddSeries("Williams %R", lineData(set.WilliamsR))

	page := components.NewPage()
	page.PageTitle = "MarketSignal " + r.Symbol
	page.AddCharts(price, macd, osc)
	if err := page.Render(w); err != nil {
		return errors.Wrap(err, "chart: render")
	}
	return nil
}
