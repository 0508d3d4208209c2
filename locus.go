/*
 *  locus.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"fmt"

	"github.com/pkg/errors"
)

// Locus is the neighborhood of a gene of interest on one scaffold
//
// The scaffold is cropped to a window of Span bases on either side of the gene
// midpoint. Where the window runs past either end of the contig it is clamped,
// and a small black marker is drawn at the contig edge.
type Locus struct {
	Title         string
	GbkFile       string
	LocusTag      string
	Span          int
	Scaffold      *Record
	ScaffoldID    string
	GeneLocation  int
	ScaffoldStart int
	ScaffoldEnd   int
	CropWindow    [2]int
	Record        *GraphicRecord
}

// LocusOptions are the knobs of NewLocus
type LocusOptions struct {
	Title              string
	Span               int
	DescriptionOrder   []string
	AddStartEndFeature bool
}

// DefaultLocusOptions returns the options used when none are given
func DefaultLocusOptions() LocusOptions {
	return LocusOptions{
		Span:               DefaultSpan,
		DescriptionOrder:   DefaultDescriptionOrder,
		AddStartEndFeature: true,
	}
}

// NewLocus loads the neighborhood of locusTag from gbkFile
func NewLocus(gbkFile, locusTag string, opts LocusOptions) (*Locus, error) {
	if opts.Span <= 0 {
		opts.Span = DefaultSpan
	}
	scaffold, geneLocation, err := FindGene(gbkFile, locusTag)
	if err != nil {
		return nil, err
	}

	r := &Locus{
		Title:        opts.Title,
		GbkFile:      gbkFile,
		LocusTag:     locusTag,
		Span:         opts.Span,
		Scaffold:     scaffold,
		ScaffoldID:   scaffold.ID,
		GeneLocation: geneLocation,
	}

	record := NewTranslator(opts.DescriptionOrder).TranslateRecord(scaffold)
	r.ScaffoldStart = 0
	r.ScaffoldEnd = record.SequenceLength

	if r.CropWindow, err = r.cropCoordinates(); err != nil {
		return nil, err
	}
	if r.Record, err = record.Crop(r.CropWindow[0], r.CropWindow[1]); err != nil {
		return nil, errors.Wrapf(err, "%s", r)
	}
	if opts.AddStartEndFeature {
		if err := r.addStartAndEndFeature(ContigEdgeSpan, ContigEdgeColor); err != nil {
			return nil, err
		}
	}
	log.Noticef("%s: %s:%d-%d (%d features)", r, r.ScaffoldID,
		r.CropWindow[0], r.CropWindow[1], len(r.Record.Features))
	return r, nil
}

// String outputs the string representation of Locus
func (r *Locus) String() string {
	return fmt.Sprintf("Locus: %s (%s)", r.Title, r.LocusTag)
}

// IsBackward tells if the gene of interest is on the reverse strand
func (r *Locus) IsBackward() (bool, error) {
	f, ok := r.Record.FindFeature(r.LocusTag)
	if !ok {
		return false, errors.Wrapf(ErrLocusTagNotFound, "could not find %s in graphic features", r.LocusTag)
	}
	if f.Strand != 1 && f.Strand != -1 {
		return false, errors.Errorf("%s has no strand (%d)", r.LocusTag, f.Strand)
	}
	return f.Strand == -1, nil
}

// LocusTags lists the locus_tag of every drawn feature
func (r *Locus) LocusTags() []string {
	return r.Record.LocusTags()
}

// RenameLabels relabels features according to locusToName. Features missing
// from the map raise an error if strict, or lose their label if
// removeUnspecified.
func (r *Locus) RenameLabels(locusToName map[string]string, strict, removeUnspecified bool) (*GraphicRecord, error) {
	for _, f := range r.Record.Features {
		if f.Fixed {
			continue
		}
		if name, ok := locusToName[f.LocusTag()]; ok {
			f.Label, f.HasLabel = name, true
			continue
		}
		if strict {
			return nil, errors.Wrapf(ErrLocusTagNotFound, "label %s not found in locus_to_name table", f.Label)
		}
		if removeUnspecified {
			f.Label, f.HasLabel = "", false
		}
	}
	return r.Record, nil
}

// Colorize fills features according to locusToColor, the others get
// defaultColor, or raise an error if strict
func (r *Locus) Colorize(locusToColor map[string]string, strict bool, defaultColor string) error {
	if defaultColor == "" {
		defaultColor = DefaultColor
	}
	for _, f := range r.Record.Features {
		if f.Fixed {
			continue
		}
		tag := f.LocusTag()
		if color, ok := locusToColor[tag]; ok {
			f.Color = color
			continue
		}
		if strict {
			return errors.Wrapf(ErrLocusTagNotFound, "locus tag %s not found in locus_to_color table", tag)
		}
		f.Color = defaultColor
	}
	return nil
}

// XLim returns the displayed coordinate range, Span bases around the gene,
// flipped when the gene is on the reverse strand and autoReverse is set
func (r *Locus) XLim(autoReverse bool) (float64, float64, error) {
	lo := float64(r.GeneLocation - r.Span)
	hi := float64(r.GeneLocation + r.Span)
	if !autoReverse {
		return lo, hi, nil
	}
	backward, err := r.IsBackward()
	if err != nil {
		return 0, 0, err
	}
	if backward {
		return hi, lo, nil
	}
	return lo, hi, nil
}

// cropCoordinates clamps the window around the gene to the scaffold
func (r *Locus) cropCoordinates() ([2]int, error) {
	if !(r.ScaffoldStart <= r.GeneLocation && r.GeneLocation <= r.ScaffoldEnd) {
		return [2]int{}, errors.Errorf("gene location %d outside of scaffold %s [%d, %d]",
			r.GeneLocation, r.ScaffoldID, r.ScaffoldStart, r.ScaffoldEnd)
	}
	cropStart := r.GeneLocation - r.Span
	if cropStart <= r.ScaffoldStart {
		cropStart = r.ScaffoldStart
	}
	cropEnd := r.GeneLocation + r.Span
	if cropEnd >= r.ScaffoldEnd {
		cropEnd = r.ScaffoldEnd
	}
	return [2]int{cropStart, cropEnd}, nil
}

// addStartAndEndFeature marks the contig edges that fall inside the window
func (r *Locus) addStartAndEndFeature(featureSpan int, color string) error {
	if !(0 <= r.ScaffoldStart && 0 < featureSpan && featureSpan < r.ScaffoldEnd) {
		return errors.Errorf("scaffold %s is too short (%d bp) for contig edge markers",
			r.ScaffoldID, r.ScaffoldEnd)
	}
	addStart := r.GeneLocation-r.Span <= r.ScaffoldStart
	addEnd := r.GeneLocation+r.Span >= r.ScaffoldEnd
	if !addStart && !addEnd {
		return nil
	}

	features := make([]*GraphicFeature, 0, len(r.Record.Features)+2)
	if addStart {
		features = append(features, edgeFeature(StartOfContig, r.ScaffoldID,
			r.ScaffoldStart, r.ScaffoldStart+featureSpan, 1, color))
	}
	features = append(features, r.Record.Features...)
	if addEnd {
		features = append(features, edgeFeature(EndOfContig, r.ScaffoldID,
			r.ScaffoldEnd-featureSpan, r.ScaffoldEnd, -1, color))
	}
	r.Record = &GraphicRecord{
		SequenceLength: r.Record.SequenceLength,
		FirstIndex:     r.Record.FirstIndex,
		Features:       features,
	}
	return nil
}

func edgeFeature(tag, scaffoldID string, start, end, strand int, color string) *GraphicFeature {
	label := tag + "\n" + scaffoldID
	return &GraphicFeature{
		Start:      start,
		End:        end,
		Strand:     strand,
		Type:       "contig_edge",
		Label:      label,
		HasLabel:   true,
		Color:      color,
		HTML:       label,
		Qualifiers: map[string][]string{"locus_tag": {tag}},
		Fixed:      true,
	}
}
