/*
 *  loci_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/lociplot"
)

func testLois() []lociplot.LocusOfInterest {
	return []lociplot.LocusOfInterest{
		{Gbk: testGbk, Gene: "TEST_0003", Title: "first"},
		{Gbk: filepath.Join("tests", "test.gbk.gz"), Gene: "OTHER_0001", Title: "second"},
	}
}

func newLoci(t *testing.T) *lociplot.Loci {
	opts := lociplot.DefaultGenerateOptions()
	opts.Span = 1000
	loci, err := lociplot.Generate(testLois(), opts)
	require.NoError(t, err)
	return loci
}

func TestGenerate(t *testing.T) {
	loci := newLoci(t)
	require.Len(t, loci.Loci, 2)
	assert.Equal(t, "Loci: 2", loci.String())
	assert.Equal(t, [][]string{
		{"TEST_0002", "TEST_0003", "TEST_0004"},
		{"OTHER_0002", "OTHER_0001"},
	}, loci.LocusTags())

	second := loci.Loci[1]
	assert.Equal(t, "second", second.Title)
	assert.Equal(t, [2]int{500, 2500}, second.CropWindow)
	// Without a color table everything gets the default color
	for _, f := range second.Record.Features {
		assert.Equal(t, lociplot.DefaultColor, f.Color)
	}
}

func TestGenerateColorsAndLabels(t *testing.T) {
	opts := lociplot.DefaultGenerateOptions()
	opts.Span = 1000
	opts.LocusToColor = map[string]string{"TEST_0003": "#00ff00", "OTHER_0001": "#00ff00"}
	opts.LocusToLabel = map[string]string{"TEST_0003": "splA", "OTHER_0001": "abcA"}
	opts.RemoveUnspecified = true
	loci, err := lociplot.Generate(testLois(), opts)
	require.NoError(t, err)

	f, _ := loci.Loci[0].Record.FindFeature("TEST_0003")
	assert.Equal(t, "#00ff00", f.Color)
	assert.Equal(t, "splA", f.Label)
	f, _ = loci.Loci[0].Record.FindFeature("TEST_0004")
	assert.Equal(t, lociplot.DefaultColor, f.Color)
	assert.False(t, f.HasLabel)

	opts.Strict = true
	_, err = lociplot.Generate(testLois(), opts)
	assert.Error(t, err)
}

func TestGenerateValidation(t *testing.T) {
	for _, lois := range [][]lociplot.LocusOfInterest{
		{{Gbk: testGbk, Title: "first"}},
		{{Gene: "TEST_0003", Title: "first"}},
		{{Gbk: filepath.Join("tests", "missing.gbk"), Gene: "TEST_0003", Title: "first"}},
		// Validation fails on the last entry before anything is parsed
		{{Gbk: testGbk, Gene: "TEST_0003", Title: "first"}, {Gbk: testGbk, Title: "second"}},
	} {
		_, err := lociplot.Generate(lois, lociplot.DefaultGenerateOptions())
		assert.Error(t, err)
	}
}

func TestGenerateWithoutTitles(t *testing.T) {
	lois := []lociplot.LocusOfInterest{
		{Gbk: testGbk, Gene: "TEST_0003"},
		{Gbk: filepath.Join("tests", "test.gbk.gz"), Gene: "OTHER_0001"},
	}
	for _, loi := range lois {
		assert.NoError(t, loi.Validate())
	}
	opts := lociplot.DefaultGenerateOptions()
	opts.Span = 1000
	loci, err := lociplot.Generate(lois, opts)
	require.NoError(t, err)
	require.Len(t, loci.Loci, 2)
	assert.Equal(t, "", loci.Loci[0].Title)
	assert.Equal(t, "Locus:  (TEST_0003)", loci.Loci[0].String())
}
