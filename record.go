/*
 *  record.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"sort"

	"github.com/biogo/store/interval"
	"github.com/pkg/errors"
)

// GraphicRecord is a set of GraphicFeatures over a coordinate window starting
// at FirstIndex
type GraphicRecord struct {
	SequenceLength int
	FirstIndex     int
	Features       []*GraphicFeature
}

// LastIndex is the end of the record window
func (r *GraphicRecord) LastIndex() int {
	return r.FirstIndex + r.SequenceLength
}

// featureInterval stores a feature in the interval tree, ID is the index of the
// feature in the record
type featureInterval struct {
	uid uintptr
	*GraphicFeature
}

func (i featureInterval) Overlap(b interval.IntRange) bool {
	return i.Start <= b.End && b.Start <= i.End
}
func (i featureInterval) ID() uintptr { return i.uid }
func (i featureInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

// window queries the tree for features touching [start, end], bounds included
type window struct {
	start, end int
}

func (w window) Overlap(b interval.IntRange) bool {
	return !(w.start > b.End || w.end < b.Start)
}

// Crop returns a new record restricted to [start, end]. Features touching the
// window are kept in their original order and clipped to it.
func (r *GraphicRecord) Crop(start, end int) (*GraphicRecord, error) {
	if start < r.FirstIndex || end > r.LastIndex() {
		return nil, errors.Errorf("out-of-bound cropping: [%d, %d] outside of [%d, %d]",
			start, end, r.FirstIndex, r.LastIndex())
	}
	if end < start {
		return nil, errors.Errorf("bad crop window [%d, %d]", start, end)
	}

	var tree interval.IntTree
	for i, f := range r.Features {
		if err := tree.Insert(featureInterval{uid: uintptr(i), GraphicFeature: f}, true); err != nil {
			return nil, errors.Wrap(err, "cannot index features")
		}
	}
	tree.AdjustRanges()

	hits := tree.Get(window{start, end})
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].ID() < hits[j].ID()
	})

	cropped := &GraphicRecord{
		SequenceLength: end - start,
		FirstIndex:     start,
		Features:       make([]*GraphicFeature, 0, len(hits)),
	}
	for _, hit := range hits {
		f := hit.(featureInterval).clone()
		f.Start = max(start, f.Start)
		f.End = min(end, f.End)
		cropped.Features = append(cropped.Features, f)
	}
	return cropped, nil
}

// LocusTags lists the locus_tag of every feature
func (r *GraphicRecord) LocusTags() []string {
	tags := make([]string, len(r.Features))
	for i, f := range r.Features {
		tags[i] = f.LocusTag()
	}
	return tags
}

// FindFeature returns the first feature tagged locusTag
func (r *GraphicRecord) FindFeature(locusTag string) (*GraphicFeature, bool) {
	for _, f := range r.Features {
		if f.LocusTag() == locusTag {
			return f, true
		}
	}
	return nil, false
}
