/*
 *  config_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/lociplot"
)

var testSettings = filepath.Join("tests", "loci.yaml")

func TestNewConfig(t *testing.T) {
	cfg, err := lociplot.NewConfig(testSettings, nil)
	require.NoError(t, err)
	assert.Equal(t, testSettings, cfg.File)
	assert.Equal(t, 1000, cfg.Span)
	assert.Equal(t, lociplot.DefaultColor, cfg.DefaultColor)
	assert.True(t, cfg.AutoReverse)
	assert.True(t, cfg.AddStartEnd)
	assert.Equal(t, lociplot.DefaultDescriptionOrder, cfg.DescriptionOrder)
	assert.Equal(t, filepath.Join("tests", "colors.tsv"), cfg.Colors)
	require.Len(t, cfg.Loci, 2)
	assert.Equal(t, lociplot.LocusOfInterest{
		Gbk:   filepath.Join("tests", "test.gbk.gz"),
		Gene:  "OTHER_0001",
		Title: "second",
	}, cfg.Loci[1])
}

func TestConfigFlags(t *testing.T) {
	flags := pflag.NewFlagSet("plot", pflag.ContinueOnError)
	flags.Int("span", lociplot.DefaultSpan, "")
	flags.Bool("strict", false, "")
	flags.Int("width", 1000, "")
	require.NoError(t, flags.Parse([]string{"--span", "500", "--strict"}))

	cfg, err := lociplot.NewConfig(testSettings, flags)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Span)
	assert.True(t, cfg.Strict)
	// Flags left alone do not override the defaults
	assert.Equal(t, 1000, cfg.Width)
}

func TestConfigEnv(t *testing.T) {
	os.Setenv("LOCIPLOT_DEFAULT_COLOR", "#cccccc")
	defer os.Unsetenv("LOCIPLOT_DEFAULT_COLOR")

	cfg, err := lociplot.NewConfig(testSettings, nil)
	require.NoError(t, err)
	assert.Equal(t, "#cccccc", cfg.DefaultColor)
}

func TestConfigMissing(t *testing.T) {
	_, err := lociplot.NewConfig(filepath.Join("tests", "missing.yaml"), nil)
	assert.Error(t, err)

	cfg, err := lociplot.NewConfig("", nil)
	require.NoError(t, err)
	_, err = cfg.Generate()
	assert.Error(t, err)
}

func TestConfigGenerate(t *testing.T) {
	cfg, err := lociplot.NewConfig(testSettings, nil)
	require.NoError(t, err)
	loci, err := cfg.Generate()
	require.NoError(t, err)
	require.Len(t, loci.Loci, 2)

	f, _ := loci.Loci[0].Record.FindFeature("TEST_0003")
	assert.Equal(t, "#00ff00", f.Color)
	assert.Equal(t, "splA\nsplit protein", f.Label)
	f, _ = loci.Loci[0].Record.FindFeature("TEST_0004")
	assert.Equal(t, lociplot.DefaultColor, f.Color)
	assert.Equal(t, "TEST_0004", f.Label)
	f, _ = loci.Loci[1].Record.FindFeature("OTHER_0002")
	assert.Equal(t, "#0000ff", f.Color)

	opts, err := cfg.ViewOptions()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(opts.ClickHandler, "function geneLabelClicked"))

	plot := cfg.PlotOptions()
	assert.True(t, plot.AutoReverse)
	assert.Equal(t, lociplot.DefaultPlotOptions().Height, plot.Height)
	gc := cfg.GCOptions()
	assert.Equal(t, lociplot.DefaultGCWindow, gc.WindowBp)
	assert.Equal(t, 300, gc.Height)
}
