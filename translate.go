/*
 *  translate.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"fmt"
	"strings"
)

// GraphicFeature is a feature as drawn on a locus diagram
type GraphicFeature struct {
	Start      int
	End        int
	Strand     int
	Type       string
	Label      string
	HasLabel   bool
	Color      string
	HTML       string
	Qualifiers map[string][]string
	// Fixed features (contig edges) are left alone by Colorize and RenameLabels
	Fixed bool
}

// String outputs the string representation of GraphicFeature
func (r GraphicFeature) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%+d\t%s", r.LocusTag(), r.Start, r.End, r.Strand, r.Label)
}

// LocusTag returns the first locus_tag qualifier, or "" when missing
func (r *GraphicFeature) LocusTag() string {
	if values := r.Qualifiers["locus_tag"]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Len returns the number of bases covered
func (r *GraphicFeature) Len() int {
	return r.End - r.Start
}

// clone copies the feature; qualifiers are shared as they are never modified
func (r *GraphicFeature) clone() *GraphicFeature {
	c := *r
	return &c
}

// Translator converts GenBank features into GraphicFeatures
type Translator struct {
	LabelFields  []string
	DefaultColor string
}

// featureKey identifies duplicated annotations, typically gene/CDS pairs
type featureKey struct {
	start, end int
	locusTag   string
}

// NewTranslator creates a translator with the given label fields, falling back
// to DefaultDescriptionOrder
func NewTranslator(labelFields []string) *Translator {
	if len(labelFields) == 0 {
		labelFields = DefaultDescriptionOrder
	}
	return &Translator{LabelFields: labelFields, DefaultColor: DefaultFeatureColor}
}

// TranslateRecord converts all the features of a scaffold. Features without a
// locus_tag, source features and features repeating an earlier
// (start, end, locus_tag) are skipped.
func (r *Translator) TranslateRecord(rec *Record) *GraphicRecord {
	seen := map[featureKey]bool{}
	gr := &GraphicRecord{SequenceLength: rec.Length}
	skipped := 0
	for _, f := range rec.Features {
		tag, ok := f.Qualifier("locus_tag")
		if !ok {
			skipped++
			continue
		}
		key := featureKey{f.Location.Start, f.Location.End, tag}
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true
		if f.Type == "source" {
			skipped++
			continue
		}
		gr.Features = append(gr.Features, r.TranslateFeature(f))
	}
	log.Debugf("Translated %d features on %s (%d skipped)", len(gr.Features), rec.ID, skipped)
	return gr
}

// TranslateFeature converts a single feature; joined locations are drawn at
// their first part
func (r *Translator) TranslateFeature(f *SeqFeature) *GraphicFeature {
	loc := f.Location.First()
	label := r.computeLabel(f)
	return &GraphicFeature{
		Start:      loc.Start,
		End:        loc.End,
		Strand:     loc.Strand,
		Type:       f.Type,
		Label:      label,
		HasLabel:   true,
		Color:      r.DefaultColor,
		HTML:       label,
		Qualifiers: f.Qualifiers,
	}
}

// computeLabel picks the first non-empty qualifier in LabelFields
func (r *Translator) computeLabel(f *SeqFeature) string {
	for _, field := range r.LabelFields {
		if values, ok := f.Qualifiers[field]; ok && len(values) > 0 {
			return strings.Join(values, "|")
		}
	}
	return f.Type
}
