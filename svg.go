/*
 *  svg.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

const (
	// lrPadding is the fraction of the figure width left blank on each side
	lrPadding = 0.07
	// rulerHeight is reserved at the bottom of a panel for the ruler
	rulerHeight = 24
	// arrowHead is the length of the arrow tips in pixels
	arrowHead = 10.0
	// fontFamily is used by all the text in the figures
	fontFamily = "PT Sans Narrow,Arial Narrow,sans-serif"
)

// PlotOptions control the static rendering of loci
type PlotOptions struct {
	// Width of the figure in pixels
	Width int
	// Height of each locus panel in pixels
	Height int
	// AutoReverse flips loci whose gene of interest is on the reverse strand
	AutoReverse bool
	// AddTitle draws the locus title in the panel
	AddTitle bool
	// WithRuler draws a coordinate axis under the features
	WithRuler bool
	// AnnotateInline writes labels inside the boxes when they fit
	AnnotateInline bool
	FontSize       float64
	TitleFontSize  float64
}

// DefaultPlotOptions returns the options used when none are given
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Width:          1000,
		Height:         200,
		AutoReverse:    true,
		AddTitle:       true,
		WithRuler:      true,
		AnnotateInline: true,
		FontSize:       11,
		TitleFontSize:  20,
	}
}

func (r *PlotOptions) setDefaults() {
	d := DefaultPlotOptions()
	if r.Width <= 0 {
		r.Width = d.Width
	}
	if r.Height <= 0 {
		r.Height = d.Height
	}
	if r.FontSize <= 0 {
		r.FontSize = d.FontSize
	}
	if r.TitleFontSize <= 0 {
		r.TitleFontSize = d.TitleFontSize
	}
}

// box is a rectangle on the canvas
type box struct {
	x, y, w, h float64
}

func ipx(v float64) int {
	return int(math.Round(v))
}

func textStyle(size float64, anchor string) string {
	return fmt.Sprintf("font-family:%s;font-size:%.0fpx;text-anchor:%s", fontFamily, size, anchor)
}

// drawnFeature is a feature placed on a panel
type drawnFeature struct {
	f            *GraphicFeature
	x0, x1       float64
	inline       bool
	labelLines   []string
	level        int
	pointsRight  bool
	pointsLeft   bool
	labelWidthPx float64
}

// Plot draws the locus as a standalone SVG document
func (r *Locus) Plot(w io.Writer, opts PlotOptions) error {
	opts.setDefaults()
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Title(r.String())
	area := box{
		x: lrPadding * float64(opts.Width),
		y: 0,
		w: (1 - 2*lrPadding) * float64(opts.Width),
		h: float64(opts.Height),
	}
	if _, err := r.drawPanel(canvas, area, opts); err != nil {
		return err
	}
	canvas.End()
	return nil
}

// PlotToString renders the locus SVG into a string
func (r *Locus) PlotToString(opts PlotOptions) (string, error) {
	var buf bytes.Buffer
	if err := r.Plot(&buf, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// drawPanel draws the features of the locus inside area and returns the scale
// that was used
func (r *Locus) drawPanel(canvas *svg.SVG, area box, opts PlotOptions) (scale, error) {
	lo, hi, err := r.XLim(opts.AutoReverse)
	if err != nil {
		return scale{}, err
	}
	sc := scale{x: area.x, w: area.w, lo: lo, hi: hi}

	canvas.Group(fmt.Sprintf(`class="locus" data-locus-tag="%s"`, escapeAttr(r.LocusTag)))

	// Features and their labels are stacked on levels above the baseline
	var drawn []*drawnFeature
	var extents []extent
	for _, f := range r.Record.Features {
		a, b, ok := sc.visible(float64(f.Start), float64(f.End))
		if !ok {
			continue
		}
		x0, x1 := sc.px(a), sc.px(b)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		d := &drawnFeature{f: f, x0: x0, x1: x1}
		dir := f.Strand
		if sc.reversed() {
			dir = -dir
		}
		d.pointsRight, d.pointsLeft = dir > 0, dir < 0
		e := extent{left: x0, right: x1}
		if f.HasLabel && f.Label != "" {
			d.labelLines = strings.Split(f.Label, "\n")
			d.labelWidthPx = textWidth(f.Label, opts.FontSize)
			d.inline = opts.AnnotateInline && len(d.labelLines) == 1 && d.labelWidthPx+4 <= x1-x0
			if !d.inline {
				center := (x0 + x1) / 2
				e.left = minf(e.left, center-d.labelWidthPx/2)
				e.right = maxf(e.right, center+d.labelWidthPx/2)
			}
		}
		drawn = append(drawn, d)
		extents = append(extents, e)
	}
	levels, nLevels := assignLevels(extents, 4)

	maxLines := 0
	for i, d := range drawn {
		d.level = levels[i]
		if !d.inline && len(d.labelLines) > maxLines {
			maxLines = len(d.labelLines)
		}
	}

	bottom := area.y + area.h
	if opts.WithRuler {
		bottom -= rulerHeight
	}
	lineHeight := opts.FontSize * 1.2
	top := area.y
	if opts.AddTitle && r.Title != "" {
		top += opts.TitleFontSize * 1.4
	}
	boxHeight := 16.0
	levelHeight := boxHeight + float64(maxLines)*lineHeight + 4
	if nLevels > 0 {
		if avail := (bottom - top) / float64(nLevels); avail < levelHeight {
			levelHeight = maxf(avail, boxHeight/2)
			boxHeight = minf(boxHeight, levelHeight*0.6)
		}
	}

	// Baseline along the scaffold stretch that was cropped
	if a, b, ok := sc.visible(float64(r.CropWindow[0]), float64(r.CropWindow[1])); ok {
		y := ipx(bottom - boxHeight/2 - 2)
		canvas.Line(ipx(sc.px(a)), y, ipx(sc.px(b)), y, "stroke:#000000;stroke-width:1")
	}

	for _, d := range drawn {
		yMid := bottom - boxHeight/2 - 2 - float64(d.level)*levelHeight
		r.drawFeature(canvas, d, yMid, boxHeight, lineHeight, opts)
	}

	if opts.WithRuler {
		drawRuler(canvas, sc, area.y+area.h-rulerHeight+4, opts.FontSize)
	}
	if opts.AddTitle && r.Title != "" {
		canvas.Text(ipx(area.x+area.w/2), ipx(area.y+opts.TitleFontSize*1.1), r.Title,
			textStyle(opts.TitleFontSize, "middle"))
	}
	canvas.Gend()
	return sc, nil
}

// drawFeature draws an arrow (or a box for unstranded features) and its label
func (r *Locus) drawFeature(canvas *svg.SVG, d *drawnFeature, yMid, boxHeight, lineHeight float64, opts PlotOptions) {
	f := d.f
	class := "feature"
	if f.LocusTag() == r.LocusTag {
		class = "feature goi"
	}
	canvas.Group(fmt.Sprintf(`class="%s" data-locus-tag="%s"`, class, escapeAttr(f.LocusTag())))
	if f.HTML != "" {
		canvas.Title(f.HTML)
	}

	yTop, yBot := yMid-boxHeight/2, yMid+boxHeight/2
	head := minf(arrowHead, d.x1-d.x0)
	style := fmt.Sprintf("fill:%s;stroke:#000000;stroke-width:0.8", f.Color)
	var xs, ys []float64
	switch {
	case d.pointsRight:
		xs = []float64{d.x0, d.x1 - head, d.x1, d.x1 - head, d.x0}
		ys = []float64{yTop, yTop, yMid, yBot, yBot}
	case d.pointsLeft:
		xs = []float64{d.x1, d.x0 + head, d.x0, d.x0 + head, d.x1}
		ys = []float64{yTop, yTop, yMid, yBot, yBot}
	default:
		xs = []float64{d.x0, d.x1, d.x1, d.x0}
		ys = []float64{yTop, yTop, yBot, yBot}
	}
	px, py := make([]int, len(xs)), make([]int, len(ys))
	for i := range xs {
		px[i], py[i] = ipx(xs[i]), ipx(ys[i])
	}
	canvas.Polygon(px, py, style)

	center := (d.x0 + d.x1) / 2
	switch {
	case len(d.labelLines) == 0:
	case d.inline:
		canvas.Text(ipx(center), ipx(yMid+opts.FontSize/3), d.labelLines[0], textStyle(opts.FontSize, "middle"))
	default:
		n := len(d.labelLines)
		for i, line := range d.labelLines {
			y := yTop - 3 - float64(n-1-i)*lineHeight
			canvas.Text(ipx(center), ipx(y), line, textStyle(opts.FontSize, "middle"))
		}
	}
	canvas.Gend()
}

// drawRuler draws the coordinate axis with about 8 ticks
func drawRuler(canvas *svg.SVG, sc scale, y, fontSize float64) {
	x0, x1 := sc.px(sc.lo), sc.px(sc.hi)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	canvas.Line(ipx(x0), ipx(y), ipx(x1), ipx(y), "stroke:#000000;stroke-width:1")
	for _, t := range ticks(sc.lo, sc.hi, 8) {
		x := ipx(sc.px(t))
		canvas.Line(x, ipx(y), x, ipx(y+4), "stroke:#000000;stroke-width:1")
		canvas.Text(x, ipx(y+4+fontSize), formatCoordinate(t), textStyle(fontSize*0.9, "middle"))
	}
}

// formatCoordinate prints a position with thousands separators
func formatCoordinate(v float64) string {
	s := fmt.Sprintf("%d", int64(Round(v)))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// escapeAttr makes s safe inside a double-quoted XML attribute
func escapeAttr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}

// GCOptions control the GC content panel
type GCOptions struct {
	PlotOptions
	// WindowBp is the GC window size
	WindowBp int
}

// DefaultGCOptions returns the options used when none are given
func DefaultGCOptions() GCOptions {
	opts := GCOptions{PlotOptions: DefaultPlotOptions(), WindowBp: DefaultGCWindow}
	opts.Height = 300
	opts.WithRuler = false
	return opts
}

// PlotGC draws the locus over its local GC content, as a standalone SVG
func (r *Locus) PlotGC(w io.Writer, opts GCOptions) error {
	opts.setDefaults()
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Title(r.String())
	area := box{
		x: lrPadding * float64(opts.Width),
		w: (1 - 2*lrPadding) * float64(opts.Width),
		h: float64(opts.Height),
	}
	if err := r.drawGCPanels(canvas, area, opts); err != nil {
		return err
	}
	canvas.End()
	return nil
}

// drawGCPanels splits area 4:1 between the feature map and the GC track
func (r *Locus) drawGCPanels(canvas *svg.SVG, area box, opts GCOptions) error {
	mapArea := area
	mapArea.h = area.h * 4 / 5
	gcArea := area
	gcArea.y = area.y + mapArea.h
	gcArea.h = area.h - mapArea.h

	sc, err := r.drawPanel(canvas, mapArea, opts.PlotOptions)
	if err != nil {
		return err
	}
	xs, ys, err := r.GCProfile(opts.WindowBp)
	if err != nil {
		return err
	}
	drawGCTrack(canvas, sc, gcArea, xs, ys, opts.FontSize)
	return nil
}

// drawGCTrack draws GC(%) as a filled area with a fixed 0-100 y axis, sharing
// the x scale of the feature map
func drawGCTrack(canvas *svg.SVG, sc scale, area box, xs, ys []float64, fontSize float64) {
	plotTop, plotBot := area.y+2, area.y+area.h-fontSize-6
	yOf := func(gc float64) float64 {
		return plotBot - gc/100*(plotBot-plotTop)
	}

	canvas.Group(`class="gc"`)
	var px, py []int
	lastX := math.MinInt32
	for i := range xs {
		if _, _, ok := sc.visible(xs[i], xs[i]); !ok {
			continue
		}
		x := ipx(sc.px(xs[i]))
		if x == lastX {
			continue
		}
		lastX = x
		px = append(px, x)
		py = append(py, ipx(yOf(ys[i])))
	}
	if len(px) > 1 {
		px = append(px, px[len(px)-1], px[0])
		py = append(py, ipx(plotBot), ipx(plotBot))
		canvas.Polygon(px, py, "fill:#1f77b4;fill-opacity:0.3;stroke:none")
	}

	x0, x1 := sc.px(sc.lo), sc.px(sc.hi)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	axis := "stroke:#000000;stroke-width:1"
	canvas.Line(ipx(x0), ipx(plotBot), ipx(x1), ipx(plotBot), axis)
	canvas.Line(ipx(x0), ipx(plotTop), ipx(x0), ipx(plotBot), axis)
	for _, gc := range []float64{0, 50, 100} {
		y := ipx(yOf(gc))
		canvas.Line(ipx(x0)-4, y, ipx(x0), y, axis)
		canvas.Text(ipx(x0)-6, y+ipx(fontSize/3), fmt.Sprintf("%.0f", gc), textStyle(fontSize*0.9, "end"))
	}
	canvas.TranslateRotate(ipx(x0)-ipx(fontSize*2.6), ipx((plotTop+plotBot)/2), -90)
	canvas.Text(0, 0, "GC(%)", textStyle(fontSize, "middle"))
	canvas.Gend()
	for _, t := range ticks(sc.lo, sc.hi, 8) {
		x := ipx(sc.px(t))
		canvas.Line(x, ipx(plotBot), x, ipx(plotBot+4), axis)
		canvas.Text(x, ipx(plotBot+4+fontSize), formatCoordinate(t), textStyle(fontSize*0.9, "middle"))
	}
	canvas.Gend()
}

// Plot stacks one panel per locus into a single SVG document
func (r *Loci) Plot(w io.Writer, opts PlotOptions) error {
	opts.setDefaults()
	n := len(r.Loci)
	canvas := svg.New(w)
	canvas.Start(opts.Width, n*opts.Height)
	canvas.Title(r.String())
	for i, locus := range r.Loci {
		area := box{
			x: lrPadding * float64(opts.Width),
			y: float64(i * opts.Height),
			w: (1 - 2*lrPadding) * float64(opts.Width),
			h: float64(opts.Height),
		}
		if _, err := locus.drawPanel(canvas, area, opts); err != nil {
			return err
		}
	}
	canvas.End()
	return nil
}

// PlotGC stacks, for each locus, the feature map over its GC content
func (r *Loci) PlotGC(w io.Writer, opts GCOptions) error {
	opts.setDefaults()
	n := len(r.Loci)
	canvas := svg.New(w)
	canvas.Start(opts.Width, n*opts.Height)
	canvas.Title(r.String())
	for i, locus := range r.Loci {
		area := box{
			x: lrPadding * float64(opts.Width),
			y: float64(i * opts.Height),
			w: (1 - 2*lrPadding) * float64(opts.Width),
			h: float64(opts.Height),
		}
		if err := locus.drawGCPanels(canvas, area, opts); err != nil {
			return err
		}
	}
	canvas.End()
	return nil
}
