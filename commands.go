/*
 *  commands.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Notice(strings.Repeat("*", len(message)))
	log.Notice(message)
	log.Notice(strings.Repeat("*", len(message)))
}

var rootCmd = &cobra.Command{
	Use:   "lociplot",
	Short: "Compare gene loci across genome assemblies",
	Long: `
lociplot draws the genomic neighborhood of a gene of interest in several
GenBank files, as static SVG figures or as an interactive page where all loci
pan and zoom together.

Most commands read a settings file (YAML, JSON or TOML):

  span: 4000
  colors: orthogroups.tsv
  loci:
    - gbk: PGAP/FAM3257.gbk
      gene: FAM3257_001020
      title: pgap
    - gbk: Prokka/FAM3257.gbk
      gene: FAM3257_00934
      title: prokka
`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug messages")

	for _, cmd := range []*cobra.Command{plotCmd, gcCmd, htmlCmd, serveCmd, tagsCmd, extractCmd} {
		addSettingsFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{plotCmd, gcCmd, locusCmd} {
		cmd.Flags().StringP("output", "o", "", "Output SVG file (default: <settings>.svg)")
	}
	gcCmd.Flags().Int("gc-window", DefaultGCWindow, "GC content window in bp")
	extractCmd.Flags().Int("gc-window", DefaultGCWindow, "GC content window in bp")
	extractCmd.Flags().String("prefix", "", "Output prefix (default: <settings>)")
	htmlCmd.Flags().StringP("output", "o", "", "Output HTML file (default: <settings>.html)")
	htmlCmd.Flags().Int("viewspan", 0, "Initial half-width of the views, 0 shows the whole locus")
	htmlCmd.Flags().String("click-handler", "", "JavaScript file defining geneLabelClicked(label, cb_data)")
	serveCmd.Flags().Int("viewspan", 0, "Initial half-width of the views, 0 shows the whole locus")
	serveCmd.Flags().String("click-handler", "", "JavaScript file defining geneLabelClicked(label, cb_data)")
	serveCmd.Flags().IntP("port", "p", 3000, "First port to try")

	locusCmd.Flags().Int("span", DefaultSpan, "Bases shown on either side of the gene")
	locusCmd.Flags().String("title", "", "Title of the plot")
	locusCmd.Flags().Bool("gc", false, "Add the GC content track")
	locusCmd.Flags().Int("gc-window", DefaultGCWindow, "GC content window in bp")
	locusCmd.Flags().Bool("auto-reverse", true, "Draw reverse strand genes right to left")
	locusCmd.Flags().Int("width", DefaultPlotOptions().Width, "Figure width in pixels")
	locusCmd.Flags().Int("height", 0, "Figure height in pixels")
	rootCmd.AddCommand(locusCmd)
}

// addSettingsFlags adds the flags shared by the commands driven by a settings file
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Settings file (or first argument)")
	cmd.Flags().Int("span", DefaultSpan, "Bases shown on either side of each gene")
	cmd.Flags().String("colors", "", "Tab-separated locus_tag to color table")
	cmd.Flags().String("labels", "", "Tab-separated locus_tag to label table")
	cmd.Flags().String("default-color", DefaultColor, "Color of the features missing from the color table")
	cmd.Flags().Bool("strict", false, "Fail on features missing from the color or label table")
	cmd.Flags().Bool("remove-unspecified", false, "Drop the labels of features missing from the label table")
	cmd.Flags().Bool("add-start-end", true, "Mark contig edges inside the loci")
	cmd.Flags().Bool("auto-reverse", true, "Draw reverse strand genes right to left")
	cmd.Flags().Int("width", DefaultPlotOptions().Width, "Figure width in pixels")
	cmd.Flags().Int("height", 0, "Panel height in pixels, per locus")
}

// settingsFile picks the settings file from the arguments or --config
func settingsFile(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if filename, _ := cmd.Flags().GetString("config"); filename != "" {
		return filename, nil
	}
	return "", errors.New("must specify a settings file")
}

// loadLoci reads the settings and builds the loci
func loadLoci(cmd *cobra.Command, args []string) (*Config, *Loci, error) {
	filename, err := settingsFile(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := NewConfig(filename, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	banner(fmt.Sprintf("Load %d loci (span = %d)", len(cfg.Loci), cfg.Span))
	loci, err := cfg.Generate()
	if err != nil {
		return nil, nil, err
	}
	return cfg, loci, nil
}

// outputFile returns --output, or the settings file name with a new extension
func outputFile(cmd *cobra.Command, cfg *Config, ext string) string {
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return output
	}
	return RemoveExt(cfg.File) + ext
}

// writeFile creates filename and hands a buffered writer to fn
func writeFile(filename string, fn func(w io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", filename)
	}
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Noticef("Figure written to `%s`", filename)
	return nil
}

var plotCmd = &cobra.Command{
	Use:   "plot [settings]",
	Short: "Draw the loci stacked in one SVG figure",
	Long: `
Plot function:
Each locus is drawn in its own panel, centered on its gene of interest. With
--auto-reverse, loci whose gene lies on the reverse strand are drawn right to
left so that all genes of interest point the same way.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loci, err := loadLoci(cmd, args)
		if err != nil {
			return err
		}
		return writeFile(outputFile(cmd, cfg, ".svg"), func(w io.Writer) error {
			return loci.Plot(w, cfg.PlotOptions())
		})
	},
}

var gcCmd = &cobra.Command{
	Use:   "gc [settings]",
	Short: "Draw the loci over their local GC content",
	Long: `
GC function:
Same as plot, with a track of the GC content (%) under each locus, computed
in sliding windows of --gc-window bases.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loci, err := loadLoci(cmd, args)
		if err != nil {
			return err
		}
		return writeFile(outputFile(cmd, cfg, ".gc.svg"), func(w io.Writer) error {
			return loci.PlotGC(w, cfg.GCOptions())
		})
	},
}

var htmlCmd = &cobra.Command{
	Use:   "html [settings]",
	Short: "Write an interactive page with linked views",
	Long: `
HTML function:
Writes a self-contained page with one view per locus. Drag to pan, use the
mouse wheel to zoom; the first locus and every other locus follow each other.
Clicking on a gene calls geneLabelClicked(label, cb_data) when the page (or
--click-handler) defines it.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loci, err := loadLoci(cmd, args)
		if err != nil {
			return err
		}
		opts, err := cfg.ViewOptions()
		if err != nil {
			return err
		}
		return writeFile(outputFile(cmd, cfg, ".html"), func(w io.Writer) error {
			return loci.PlotInteractive(w, opts)
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [settings]",
	Short: "Serve the interactive page and figures over HTTP",
	Long: `
Serve function:
Hosts the interactive page on localhost, along with:

  /loci.json            the views
  /tags                 the locus tags of each locus
  /locus/<i>/svg        the static figure of locus i
  /locus/<i>/gc.svg     the same over its GC content
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loci, err := loadLoci(cmd, args)
		if err != nil {
			return err
		}
		opts, err := cfg.ViewOptions()
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetInt("port")
		server := &Server{Loci: loci, View: opts, Plot: cfg.PlotOptions(), GC: cfg.GCOptions(), Port: port}
		return server.Run()
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags [settings]",
	Short: "List the locus tags drawn in each locus",
	Long: `
Tags function:
Prints index, title and locus_tag of every feature drawn, a convenient start
for a color or label table.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, loci, err := loadLoci(cmd, args)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(os.Stdout)
		if err := loci.WriteLocusTags(w); err != nil {
			return err
		}
		return w.Flush()
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [settings]",
	Short: "Export the sequence and GC profile of each locus",
	Long: `
Extract function:
Writes the crop window of each locus to <prefix>.fasta (reverse complemented
with --auto-reverse when the gene lies on the reverse strand) with its .fai
index, and the GC profile of each locus to <prefix>.<i>.gc.npy.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loci, err := loadLoci(cmd, args)
		if err != nil {
			return err
		}
		prefix, _ := cmd.Flags().GetString("prefix")
		if prefix == "" {
			prefix = RemoveExt(cfg.File)
		}
		exporter := &Exporter{Loci: loci, Prefix: prefix, AutoReverse: cfg.AutoReverse, GCWindow: cfg.GCWindow}
		return exporter.Run()
	},
}

var locusCmd = &cobra.Command{
	Use:   "locus gbkfile locus_tag",
	Short: "Draw a single locus",
	Long: `
Locus function:
Draws the neighborhood of one gene without a settings file, e.g.

  lociplot locus PGAP/FAM3257.gbk FAM3257_000993 --span 5000 -o locus.svg
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gbkfile, locusTag := args[0], args[1]
		flags := cmd.Flags()
		span, _ := flags.GetInt("span")
		title, _ := flags.GetString("title")
		locus, err := NewLocus(gbkfile, locusTag, LocusOptions{
			Title:              title,
			Span:               span,
			DescriptionOrder:   DefaultDescriptionOrder,
			AddStartEndFeature: true,
		})
		if err != nil {
			return err
		}

		output, _ := flags.GetString("output")
		if output == "" {
			output = locusTag + ".svg"
		}
		withGC, _ := flags.GetBool("gc")
		opts := DefaultGCOptions()
		opts.AutoReverse, _ = flags.GetBool("auto-reverse")
		opts.WindowBp, _ = flags.GetInt("gc-window")
		opts.Width, _ = flags.GetInt("width")
		if height, _ := flags.GetInt("height"); height > 0 {
			opts.Height = height
		}
		return writeFile(output, func(w io.Writer) error {
			if withGC {
				return locus.PlotGC(w, opts)
			}
			plotOpts := opts.PlotOptions
			plotOpts.WithRuler = true
			if height, _ := flags.GetInt("height"); height <= 0 {
				plotOpts.Height = DefaultPlotOptions().Height
			}
			return locus.Plot(w, plotOpts)
		})
	},
}
