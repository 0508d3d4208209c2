/*
 *  base.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"bufio"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path"
	"strings"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

const (
	// Version is the current version of lociplot
	Version = "0.3.1"
	// DefaultSpan is the number of bases shown on either side of the gene midpoint
	DefaultSpan = 3000
	// DefaultColor is assigned to features missing from the color table
	DefaultColor = "#ffffff"
	// DefaultFeatureColor is used before any colorization
	DefaultFeatureColor = "#7245dc"
	// ContigEdgeSpan is the width of the start/end of contig markers
	ContigEdgeSpan = 30
	// ContigEdgeColor is the fill of the start/end of contig markers
	ContigEdgeColor = "#000000"
	// StartOfContig is the locus_tag of the start of contig marker
	StartOfContig = "Start of contig"
	// EndOfContig is the locus_tag of the end of contig marker
	EndOfContig = "End of contig"
	// DefaultGCWindow is the window size in bp of the GC content track
	DefaultGCWindow = 100
	// FastaLineWidth is the number of bases per line in exported FASTA
	FastaLineWidth = 60
)

// DefaultDescriptionOrder lists the qualifiers tried, in order, to label a feature
var DefaultDescriptionOrder = []string{
	"locus_tag",
	"label",
	"name",
	"gene",
	"product",
	"source",
	"note",
}

// ErrLocusTagNotFound is returned when a locus_tag is absent from a GenBank file
// or from a rendered locus
var ErrLocusTagNotFound = errors.New("locus_tag not found")

var log = logging.MustGetLogger("lociplot")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// SetVerbose toggles DEBUG messages on the formatted backend
func SetVerbose(verbose bool) {
	leveled := logging.AddModuleLevel(BackendFormatter)
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.INFO, "")
	}
	logging.SetBackend(leveled)
}

// RemoveExt returns the substring minus the extension
func RemoveExt(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// IsNewerFile checks if file a is newer than file b
func IsNewerFile(a, b string) bool {
	af, aerr := os.Stat(a)
	bf, berr := os.Stat(b)
	if os.IsNotExist(aerr) || os.IsNotExist(berr) {
		return false
	}
	return af.ModTime().Sub(bf.ModTime()) > 0
}

// mustExist returns an error unless filename is a regular file
func mustExist(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return errors.Wrapf(err, "file not found: %s", filename)
	}
	if info.IsDir() {
		return errors.Errorf("file not found: %s is a directory", filename)
	}
	return nil
}

// readText slurps a small text file
func readText(filename string) (string, error) {
	if err := mustExist(filename); err != nil {
		return "", err
	}
	b, err := ioutil.ReadFile(filename)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read %s", filename)
	}
	return string(b), nil
}

// Round makes a round number
func Round(input float64) float64 {
	if input < 0 {
		return math.Ceil(input - 0.5)
	}
	return math.Floor(input + 0.5)
}

// min gets the minimum for two ints
func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

// max gets the maximum for two ints
func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// minf gets the minimum for two floats
func minf(x, y float64) float64 {
	if x < y {
		return x
	}
	return y
}

// maxf gets the maximum for two floats
func maxf(x, y float64) float64 {
	if x > y {
		return x
	}
	return y
}

// ReadTable parses a two-column tab-separated file into a map, e.g.
//
// # locus_tag	color
// FAM3257_001014	#1271c3
// FAM3257_001015	#3171c3
//
// Blank lines and lines starting with '#' are skipped. The value may contain
// spaces and the escape \n, which becomes a line break in labels.
func ReadTable(filename string) (map[string]string, error) {
	log.Noticef("Parse table `%s`", filename)
	if err := mustExist(filename); err != nil {
		return nil, err
	}
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", filename)
	}
	defer fh.Close()
	return parseTable(fh, filename)
}

func parseTable(r io.Reader, filename string) (map[string]string, error) {
	table := map[string]string{}
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words := strings.SplitN(line, "\t", 2)
		if len(words) != 2 {
			return nil, errors.Errorf("%s:%d: expected 2 tab-separated columns", filename, row)
		}
		key := strings.TrimSpace(words[0])
		table[key] = strings.ReplaceAll(strings.TrimSpace(words[1]), `\n`, "\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", filename)
	}
	log.Debugf("Read %d entries from `%s`", len(table), filename)
	return table, nil
}
