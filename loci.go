/*
 *  loci.go
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

// LocusOfInterest points at one gene in one GenBank file
type LocusOfInterest struct {
	Gbk   string `mapstructure:"gbk" json:"gbk"`
	Gene  string `mapstructure:"gene" json:"gene"`
	Title string `mapstructure:"title" json:"title"`
}

// GenerateOptions control how loci are built and decorated
type GenerateOptions struct {
	Span               int
	DescriptionOrder   []string
	AddStartEndFeature bool
	LocusToColor       map[string]string
	DefaultColor       string
	Strict             bool
	LocusToLabel       map[string]string
	RemoveUnspecified  bool
}

// DefaultGenerateOptions returns the options used when none are given
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Span:               DefaultSpan,
		DescriptionOrder:   DefaultDescriptionOrder,
		AddStartEndFeature: true,
		DefaultColor:       DefaultColor,
	}
}

// Loci is a collection of Locus that are drawn together
type Loci struct {
	Loci []*Locus
}

// String outputs the string representation of Loci
func (r *Loci) String() string {
	return fmt.Sprintf("Loci: %d", len(r.Loci))
}

// LocusTags lists the locus tags of each locus
func (r *Loci) LocusTags() [][]string {
	tags := make([][]string, len(r.Loci))
	for i, locus := range r.Loci {
		tags[i] = locus.LocusTags()
	}
	return tags
}

// Validate checks that the locus of interest names a gene and an existing
// file. Title may be empty.
func (r LocusOfInterest) Validate() error {
	switch {
	case r.Gbk == "":
		return errors.Errorf("locus of interest (%+v) lacks key: gbk", r)
	case r.Gene == "":
		return errors.Errorf("locus of interest (%+v) lacks key: gene", r)
	}
	return mustExist(r.Gbk)
}

// Generate builds and colorizes a Locus for each locus of interest. All
// entries are validated before any file is parsed.
func Generate(lois []LocusOfInterest, opts GenerateOptions) (*Loci, error) {
	if len(opts.DescriptionOrder) == 0 {
		opts.DescriptionOrder = DefaultDescriptionOrder
	}
	for _, loi := range lois {
		if err := loi.Validate(); err != nil {
			return nil, err
		}
	}

	loci := &Loci{}
	for _, loi := range lois {
		locus, err := NewLocus(loi.Gbk, loi.Gene, LocusOptions{
			Title:              loi.Title,
			Span:               opts.Span,
			DescriptionOrder:   opts.DescriptionOrder,
			AddStartEndFeature: opts.AddStartEndFeature,
		})
		if err != nil {
			return nil, err
		}
		if err := locus.Colorize(opts.LocusToColor, opts.Strict, opts.DefaultColor); err != nil {
			return nil, errors.Wrapf(err, "%s", locus)
		}
		if opts.LocusToLabel != nil {
			if _, err := locus.RenameLabels(opts.LocusToLabel, opts.Strict, opts.RemoveUnspecified); err != nil {
				return nil, errors.Wrapf(err, "%s", locus)
			}
		}
		loci.Loci = append(loci.Loci, locus)
	}
	log.Noticef("%s", loci)
	return loci, nil
}
