/*
 *  gc.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"github.com/kshedden/gonpy"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
)

// GCProfile computes the local GC content (%) in sliding windows of windowBp
// bases, one window starting at each position from windowBp before the crop
// window to windowBp after it. xs are the window centers.
//
// Windows running past the scaffold ends are truncated but still divided by
// windowBp, so the profile drops towards the contig edges. The first windows
// start before the scaffold when the crop window is within windowBp of its
// start; those windows are clamped to position 0 but their xs keep the
// unclamped centers, which may be negative.
func (r *Locus) GCProfile(windowBp int) (xs, ys []float64, err error) {
	if windowBp <= 0 {
		windowBp = DefaultGCWindow
	}
	seq.ValidateSeq = false // GenBank sequences may carry any IUPAC code

	scaffold := r.Scaffold.Seq
	from, to := r.CropWindow[0]-windowBp, r.CropWindow[1]+windowBp
	xs = make([]float64, 0, to-from)
	ys = make([]float64, 0, to-from)
	for x := from; x < to; x++ {
		a := min(max(x, 0), len(scaffold))
		b := min(max(x+windowBp, 0), len(scaffold))
		gc := 0.0
		if b > a {
			s, err := seq.NewSeq(seq.DNAredundant, scaffold[a:b])
			if err != nil {
				return nil, nil, errors.Wrapf(err, "bad sequence at %s:%d-%d", r.ScaffoldID, a, b)
			}
			gc = s.GC() * float64(b-a)
		}
		xs = append(xs, float64(x)+float64(windowBp)/2)
		ys = append(ys, 100*gc/float64(windowBp))
	}
	return xs, ys, nil
}

// WriteGCProfile serializes the GC profile into a 2 x N float64 .npy array, the
// first row holds the positions and the second row the GC content
func (r *Locus) WriteGCProfile(filename string, windowBp int) error {
	xs, ys, err := r.GCProfile(windowBp)
	if err != nil {
		return err
	}
	w, err := gonpy.NewFileWriter(filename)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", filename)
	}
	w.Shape = []int{2, len(xs)}
	if err := w.WriteFloat64(append(xs, ys...)); err != nil {
		return errors.Wrapf(err, "cannot write %s", filename)
	}
	log.Noticef("GC profile of %s (%d windows) written to `%s`", r, len(xs), filename)
	return nil
}
