/*
 *  interactive_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/lociplot"
)

func TestViewLinkSync(t *testing.T) {
	link := lociplot.ViewLink{MyCenter: 2450, OtherCenter: 1500}
	start, end := link.Sync(2000, 2900)
	assert.Equal(t, 1050.0, start)
	assert.Equal(t, 1950.0, end)

	link.Reverse = true
	start, end = link.Sync(2000, 2900)
	assert.Equal(t, 1950.0, start)
	assert.Equal(t, 1050.0, end)

	// Syncing back lands on the original range
	back := lociplot.ViewLink{Reverse: true, MyCenter: 1500, OtherCenter: 2450}
	start, end = back.Sync(start, end)
	assert.Equal(t, 2000.0, start)
	assert.Equal(t, 2900.0, end)
}

func TestLocusView(t *testing.T) {
	locus := newLocus(t, "TEST_0001")
	v, err := locus.View(lociplot.DefaultViewOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, 1200, v.Width)
	assert.Equal(t, [2]float64{0, 1250}, v.XRange)
	assert.False(t, v.IsBackward)
	require.Len(t, v.Features, 3)
	assert.Equal(t, "TEST_0001", v.Features[1].LocusTag)
	assert.True(t, v.Features[1].GOI)
	assert.False(t, v.Features[2].GOI)
	assert.Equal(t, 36+40+24, v.Height)

	opts := lociplot.DefaultViewOptions()
	opts.Viewspan = 500
	opts.Height = 250
	v, err = locus.View(opts)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{-250, 750}, v.XRange)
	assert.Equal(t, 250, v.Height)
}

func TestLocusViewBackward(t *testing.T) {
	locus := newLocus(t, "TEST_0005")
	v, err := locus.View(lociplot.DefaultViewOptions())
	require.NoError(t, err)
	assert.True(t, v.IsBackward)
	assert.Equal(t, [2]float64{5000, 3700}, v.XRange)

	opts := lociplot.DefaultViewOptions()
	opts.Viewspan = 500
	v, err = locus.View(opts)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{5200, 4200}, v.XRange)

	opts.AutoReverse = false
	v, err = locus.View(opts)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{4200, 5200}, v.XRange)
}

func TestLociViews(t *testing.T) {
	loci := newLoci(t)
	views, err := loci.Views(lociplot.DefaultViewOptions())
	require.NoError(t, err)
	require.Len(t, views, 2)
	first, second := views[0], views[1]
	assert.NotEqual(t, first.ID, second.ID)

	require.Len(t, first.Links, 1)
	require.Len(t, second.Links, 1)
	assert.Equal(t, lociplot.ViewLink{Target: second.ID, Reverse: true, MyCenter: 2450, OtherCenter: 1500}, first.Links[0])
	assert.Equal(t, lociplot.ViewLink{Target: first.ID, Reverse: true, MyCenter: 1500, OtherCenter: 2450}, second.Links[0])

	opts := lociplot.DefaultViewOptions()
	opts.AutoReverse = false
	views, err = loci.Views(opts)
	require.NoError(t, err)
	assert.False(t, views[0].Links[0].Reverse)
}

func TestLociViewsStar(t *testing.T) {
	lois := append(testLois(), lociplot.LocusOfInterest{Gbk: testGbk, Gene: "TEST_0001", Title: "third"})
	opts := lociplot.DefaultGenerateOptions()
	opts.Span = 1000
	loci, err := lociplot.Generate(lois, opts)
	require.NoError(t, err)

	views, err := loci.Views(lociplot.DefaultViewOptions())
	require.NoError(t, err)
	require.Len(t, views, 3)
	// The first view links to all others, the others only to the first
	assert.Len(t, views[0].Links, 2)
	assert.Len(t, views[1].Links, 1)
	assert.Len(t, views[2].Links, 1)
	assert.Equal(t, views[0].ID, views[2].Links[0].Target)
	assert.False(t, views[2].Links[0].Reverse)
}

func TestPlotInteractive(t *testing.T) {
	loci := newLoci(t)
	opts := lociplot.DefaultViewOptions()
	opts.ClickHandler = "function geneLabelClicked(label, cb_data) { window.alert(label); }"
	var buf bytes.Buffer
	require.NoError(t, loci.PlotInteractive(&buf, opts))
	page := buf.String()

	assert.Contains(t, page, "<title>Loci: 2</title>")
	assert.Contains(t, page, lociplot.SyncScrollJS)
	assert.Contains(t, page, "function geneLabelClicked(label, cb_data)")
	assert.Contains(t, page, `"locus_tag":"TEST_0003"`)
	assert.Contains(t, page, `"locus_tag":"OTHER_0001"`)
	assert.Contains(t, page, `"reverse":true`)
}
