/*
 *  export.go
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

	"github.com/biogo/hts/fai"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
)

// WriteFasta writes the crop window sequence as a FASTA record. With
// autoReverse, loci whose gene is on the reverse strand are reverse
// complemented so that all loci read in the direction of their gene. The
// record name is prefixed with index so that names stay unique when the same
// window is exported twice.
func (r *Locus) WriteFasta(w io.Writer, index int, autoReverse bool) error {
	start, end := r.CropWindow[0], r.CropWindow[1]
	if len(r.Scaffold.Seq) < end {
		return errors.Errorf("%s: scaffold %s has no sequence for %d-%d", r, r.ScaffoldID, start, end)
	}
	seq.ValidateSeq = false
	region := make([]byte, end-start)
	copy(region, r.Scaffold.Seq[start:end])
	s, err := seq.NewSeq(seq.DNAredundant, region)
	if err != nil {
		return errors.Wrapf(err, "bad sequence in %s", r.ScaffoldID)
	}

	strand := "+"
	if autoReverse {
		backward, err := r.IsBackward()
		if err != nil {
			return err
		}
		if backward {
			s = s.RevCom()
			strand = "-"
		}
	}
	if _, err := fmt.Fprintf(w, ">%d|%s:%d-%d(%s) %s %s\n", index, r.ScaffoldID, start+1, end,
		strand, r.LocusTag, r.Title); err != nil {
		return err
	}
	if _, err := w.Write(s.FormatSeq(FastaLineWidth)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// IndexFasta writes the .fai index of a FASTA file next to it
func IndexFasta(fastafile string) (string, error) {
	faifile := fastafile + ".fai"
	if IsNewerFile(faifile, fastafile) {
		log.Debugf("Index `%s` is up to date", faifile)
		return faifile, nil
	}
	fh, err := os.Open(fastafile)
	if err != nil {
		return "", errors.Wrapf(err, "cannot open %s", fastafile)
	}
	defer fh.Close()
	idx, err := fai.NewIndex(fh)
	if err != nil {
		return "", errors.Wrapf(err, "cannot index %s", fastafile)
	}

	out, err := os.Create(faifile)
	if err != nil {
		return "", errors.Wrapf(err, "cannot create %s", faifile)
	}
	defer out.Close()
	if err := fai.WriteTo(out, idx); err != nil {
		return "", errors.Wrapf(err, "cannot write %s", faifile)
	}
	return faifile, nil
}

// WriteLocusTags writes one line per drawn feature: locus index, title and
// locus_tag
func (r *Loci) WriteLocusTags(w io.Writer) error {
	for i, locus := range r.Loci {
		for _, tag := range locus.LocusTags() {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", i, locus.Title, tag); err != nil {
				return err
			}
		}
	}
	return nil
}

// Exporter dumps the loci as FASTA (with its index) and their GC profiles
type Exporter struct {
	Loci        *Loci
	Prefix      string
	AutoReverse bool
	GCWindow    int
	// Output files
	OutFastafile string
	OutFaifile   string
	OutGCfiles   []string
}

// Run writes <prefix>.fasta, <prefix>.fasta.fai and <prefix>.<i>.gc.npy
func (r *Exporter) Run() error {
	r.OutFastafile = r.Prefix + ".fasta"
	f, err := os.Create(r.OutFastafile)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", r.OutFastafile)
	}
	w := bufio.NewWriter(f)
	for i, locus := range r.Loci.Loci {
		if err := locus.WriteFasta(w, i, r.AutoReverse); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Noticef("%d loci written to `%s`", len(r.Loci.Loci), r.OutFastafile)

	if r.OutFaifile, err = IndexFasta(r.OutFastafile); err != nil {
		return err
	}

	r.OutGCfiles = r.OutGCfiles[:0]
	for i, locus := range r.Loci.Loci {
		gcfile := fmt.Sprintf("%s.%d.gc.npy", r.Prefix, i)
		if err := locus.WriteGCProfile(gcfile, r.GCWindow); err != nil {
			return err
		}
		r.OutGCfiles = append(r.OutGCfiles, gcfile)
	}
	log.Notice("Success")
	return nil
}
