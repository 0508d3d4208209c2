/*
 *  genbank.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bebop/poly/io/genbank"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// Record is one LOCUS entry of a GenBank file, typically a scaffold or contig
type Record struct {
	Name       string
	ID         string
	Definition string
	Length     int
	Topology   string
	Seq        []byte
	Features   []*SeqFeature
}

// SeqFeature is an entry of the FEATURES table
type SeqFeature struct {
	Type       string
	Location   Location
	Qualifiers map[string][]string
}

// String outputs the string representation of Record
func (r Record) String() string {
	return fmt.Sprintf("%s\t%d bp\t%d features", r.ID, r.Length, len(r.Features))
}

// Qualifier returns the first value of a qualifier
func (r *SeqFeature) Qualifier(key string) (string, bool) {
	values, ok := r.Qualifiers[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// LocusTag returns the first locus_tag qualifier, or "" when missing
func (r *SeqFeature) LocusTag() string {
	tag, _ := r.Qualifier("locus_tag")
	return tag
}

// ParseGenBank reads all the records of a GenBank stream. Lines holding only
// whitespace are dropped before parsing.
func ParseGenBank(r io.Reader) ([]*Record, error) {
	var buf bytes.Buffer
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	gbs, err := genbank.ParseMulti(&buf)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, len(gbs))
	for i, gb := range gbs {
		records[i] = convertRecord(gb)
	}
	return records, nil
}

// convertRecord keeps what the loci need from a parsed GenBank entry. ID is
// taken from VERSION, else ACCESSION, else the LOCUS name.
func convertRecord(gb genbank.Genbank) *Record {
	rec := &Record{
		Name:       gb.Meta.Locus.Name,
		Definition: strings.Join(strings.Fields(gb.Meta.Definition), " "),
		Seq:        []byte(strings.ToUpper(gb.Sequence)),
		Topology:   "linear",
	}
	if gb.Meta.Locus.Circular {
		rec.Topology = "circular"
	}
	rec.Length = len(rec.Seq)
	if rec.Length == 0 {
		if words := strings.Fields(gb.Meta.Locus.SequenceLength); len(words) > 0 {
			rec.Length, _ = strconv.Atoi(words[0])
		}
	}

	rec.ID = rec.Name
	if words := strings.Fields(gb.Meta.Accession); len(words) > 0 {
		rec.ID = words[0]
	}
	if words := strings.Fields(gb.Meta.Version); len(words) > 0 {
		rec.ID = words[0]
	}

	rec.Features = make([]*SeqFeature, 0, len(gb.Features))
	for _, f := range gb.Features {
		sf := &SeqFeature{
			Type:       f.Type,
			Location:   convertLocation(f.Location),
			Qualifiers: map[string][]string{},
		}
		for key, value := range f.Attributes {
			sf.Qualifiers[key] = attributeValues(value)
		}
		rec.Features = append(rec.Features, sf)
	}
	return rec
}

// attributeValues lists the values of a qualifier, stored either as a single
// string or as a list depending on the genbank package version. Enclosing
// quotes are removed.
func attributeValues(value interface{}) []string {
	var values []string
	switch v := value.(type) {
	case string:
		values = []string{v}
	case []string:
		values = append(values, v...)
	default:
		values = []string{fmt.Sprint(value)}
	}
	for i, v := range values {
		values[i] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return values
}

// ReadGenBank parses all records of a (possibly compressed) GenBank file
func ReadGenBank(filename string) ([]*Record, error) {
	if err := mustExist(filename); err != nil {
		return nil, err
	}
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", filename)
	}
	defer fh.Close()

	records, err := ParseGenBank(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", filename)
	}
	log.Debugf("Read %d records from `%s`", len(records), filename)
	return records, nil
}

// FindGene returns the scaffold that contains the gene or CDS tagged locusTag,
// and the midpoint of that gene on the scaffold
func FindGene(filename, locusTag string) (*Record, int, error) {
	log.Debugf("Search `%s` for %s", filename, locusTag)
	records, err := ReadGenBank(filename)
	if err != nil {
		return nil, 0, err
	}
	for _, rec := range records {
		for _, f := range rec.Features {
			if f.Type != "gene" && f.Type != "CDS" {
				continue
			}
			if tag, ok := f.Qualifier("locus_tag"); !ok || tag != locusTag {
				continue
			}
			loc := f.Location.First()
			return rec, loc.Start + (loc.End-loc.Start)/2, nil
		}
	}
	return nil, 0, errors.Wrapf(ErrLocusTagNotFound, "gene %s was not found in file %s", locusTag, filename)
}
