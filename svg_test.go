/*
 *  svg_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot_test

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/lociplot"
)

// wellFormed checks that the document parses as XML
func wellFormed(t *testing.T, doc string) {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestLocusPlot(t *testing.T) {
	locus := newLocus(t, "TEST_0001")
	doc, err := locus.PlotToString(lociplot.DefaultPlotOptions())
	require.NoError(t, err)
	wellFormed(t, doc)

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `width="1000"`)
	assert.Contains(t, doc, `class="feature goi" data-locus-tag="TEST_0001"`)
	assert.Contains(t, doc, `data-locus-tag="TEST_0002"`)
	assert.Contains(t, doc, `data-locus-tag="Start of contig"`)
	assert.Contains(t, doc, "<title>TEST_0001</title>")
	assert.Contains(t, doc, ">Start of contig</text>")
	assert.Contains(t, doc, ">ctg1.1</text>")
	assert.Equal(t, 3, strings.Count(doc, "<polygon"))
}

func TestLocusPlotHiddenLabels(t *testing.T) {
	locus := newLocus(t, "TEST_0003")
	_, err := locus.RenameLabels(map[string]string{"TEST_0003": "splA"}, false, true)
	require.NoError(t, err)

	opts := lociplot.DefaultPlotOptions()
	opts.AddTitle = false
	opts.WithRuler = false
	doc, err := locus.PlotToString(opts)
	require.NoError(t, err)
	wellFormed(t, doc)
	assert.Contains(t, doc, ">splA</text>")
	assert.NotContains(t, doc, ">TEST_0002</text>")
	assert.NotContains(t, doc, ">TEST_0003</text>")
}

func TestLociPlot(t *testing.T) {
	loci := newLoci(t)
	var buf bytes.Buffer
	opts := lociplot.DefaultPlotOptions()
	opts.Height = 150
	require.NoError(t, loci.Plot(&buf, opts))
	doc := buf.String()
	wellFormed(t, doc)

	assert.Contains(t, doc, `height="300"`)
	assert.Contains(t, doc, ">first</text>")
	assert.Contains(t, doc, ">second</text>")
	assert.Equal(t, 2, strings.Count(doc, `class="locus"`))
	assert.Equal(t, 5, strings.Count(doc, "<polygon"))
}

func TestLociPlotGC(t *testing.T) {
	loci := newLoci(t)
	var buf bytes.Buffer
	require.NoError(t, loci.PlotGC(&buf, lociplot.DefaultGCOptions()))
	doc := buf.String()
	wellFormed(t, doc)

	assert.Contains(t, doc, `height="600"`)
	assert.Equal(t, 2, strings.Count(doc, `class="gc"`))
	assert.Equal(t, 2, strings.Count(doc, ">GC(%)</text>"))
}

func TestLocusPlotGC(t *testing.T) {
	var buf bytes.Buffer
	opts := lociplot.DefaultGCOptions()
	opts.WindowBp = 50
	require.NoError(t, newLocus(t, "TEST_0005").PlotGC(&buf, opts))
	wellFormed(t, buf.String())
	assert.Contains(t, buf.String(), `class="gc"`)
}
