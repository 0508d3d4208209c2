/*
 *  config.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root-level settings struct, a mix of the settings file
// (YAML, JSON or TOML), LOCIPLOT_* environment variables and command line flags
type Config struct {
	// the genes of interest
	Loci []LocusOfInterest `mapstructure:"loci"`
	// bases shown on either side of each gene
	Span int `mapstructure:"span"`
	// initial half-width of the interactive views, 0 for the whole crop window
	Viewspan int `mapstructure:"viewspan"`
	// qualifiers tried in order to label features
	DescriptionOrder []string `mapstructure:"description-order"`
	// mark the contig edges that fall inside a locus
	AddStartEnd bool `mapstructure:"add-start-end"`
	// tab-separated locus_tag to color table
	Colors string `mapstructure:"colors"`
	// tab-separated locus_tag to label table
	Labels string `mapstructure:"labels"`
	// color of the features missing from the color table
	DefaultColor string `mapstructure:"default-color"`
	// fail on features missing from the color or label table
	Strict bool `mapstructure:"strict"`
	// drop the labels of features missing from the label table
	RemoveUnspecified bool `mapstructure:"remove-unspecified"`
	// draw reverse strand genes of interest right to left
	AutoReverse bool `mapstructure:"auto-reverse"`
	// figure width in pixels
	Width int `mapstructure:"width"`
	// panel height in pixels, per locus
	Height int `mapstructure:"height"`
	// GC content window size
	GCWindow int `mapstructure:"gc-window"`
	// JavaScript file defining geneLabelClicked(label, cb_data)
	ClickHandler string `mapstructure:"click-handler"`

	// path of the settings file, empty when there is none
	File string `mapstructure:"-"`
}

// setDefaults registers the default of every key
func setDefaults(v *viper.Viper) {
	v.SetDefault("span", DefaultSpan)
	v.SetDefault("viewspan", 0)
	v.SetDefault("description-order", DefaultDescriptionOrder)
	v.SetDefault("add-start-end", true)
	v.SetDefault("default-color", DefaultColor)
	v.SetDefault("strict", false)
	v.SetDefault("remove-unspecified", false)
	v.SetDefault("auto-reverse", true)
	v.SetDefault("width", DefaultPlotOptions().Width)
	v.SetDefault("height", 0)
	v.SetDefault("gc-window", DefaultGCWindow)
}

// NewConfig returns a new Config populated by the settings file (if any), the
// environment and the flags that were set on the command line
func NewConfig(filename string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LOCIPLOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if filename != "" {
		if err := mustExist(filename); err != nil {
			return nil, err
		}
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "cannot read settings %s", filename)
		}
		log.Noticef("Parse settings `%s`", v.ConfigFileUsed())
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "cannot bind flags")
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "unable to decode settings")
	}
	c.File = filename
	c.resolvePaths()
	return c, nil
}

// resolvePaths makes relative paths in the settings file relative to it
func (r *Config) resolvePaths() {
	if r.File == "" {
		return
	}
	dir := filepath.Dir(r.File)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range r.Loci {
		r.Loci[i].Gbk = resolve(r.Loci[i].Gbk)
	}
	r.Colors = resolve(r.Colors)
	r.Labels = resolve(r.Labels)
	r.ClickHandler = resolve(r.ClickHandler)
}

// GenerateOptions reads the color and label tables
func (r *Config) GenerateOptions() (GenerateOptions, error) {
	opts := GenerateOptions{
		Span:               r.Span,
		DescriptionOrder:   r.DescriptionOrder,
		AddStartEndFeature: r.AddStartEnd,
		DefaultColor:       r.DefaultColor,
		Strict:             r.Strict,
		RemoveUnspecified:  r.RemoveUnspecified,
		LocusToColor:       map[string]string{},
	}
	var err error
	if r.Colors != "" {
		if opts.LocusToColor, err = ReadTable(r.Colors); err != nil {
			return opts, err
		}
	}
	if r.Labels != "" {
		if opts.LocusToLabel, err = ReadTable(r.Labels); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// Generate builds the loci listed in the settings
func (r *Config) Generate() (*Loci, error) {
	if len(r.Loci) == 0 {
		return nil, errors.New("no loci specified in the settings")
	}
	opts, err := r.GenerateOptions()
	if err != nil {
		return nil, err
	}
	return Generate(r.Loci, opts)
}

// PlotOptions are the static rendering options
func (r *Config) PlotOptions() PlotOptions {
	opts := DefaultPlotOptions()
	opts.AutoReverse = r.AutoReverse
	if r.Width > 0 {
		opts.Width = r.Width
	}
	if r.Height > 0 {
		opts.Height = r.Height
	}
	return opts
}

// GCOptions are the static rendering options of the GC figures
func (r *Config) GCOptions() GCOptions {
	opts := DefaultGCOptions()
	opts.AutoReverse = r.AutoReverse
	opts.WindowBp = r.GCWindow
	if r.Width > 0 {
		opts.Width = r.Width
	}
	if r.Height > 0 {
		opts.Height = r.Height
	}
	return opts
}

// ViewOptions are the interactive rendering options
func (r *Config) ViewOptions() (ViewOptions, error) {
	opts := DefaultViewOptions()
	opts.AutoReverse = r.AutoReverse
	opts.Viewspan = r.Viewspan
	if r.ClickHandler != "" {
		handler, err := readText(r.ClickHandler)
		if err != nil {
			return opts, err
		}
		opts.ClickHandler = handler
	}
	return opts, nil
}
