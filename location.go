/*
 *  location.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"fmt"
	"strings"

	"github.com/bebop/poly/io/genbank"
)

// Location is a feature location in 0-based, half-open coordinates. GenBank
// `100..200` becomes Start=99, End=200. Joined locations keep their parts in
// biological order and span all of them.
type Location struct {
	Start    int
	End      int
	Strand   int
	Operator string
	Parts    []Location
}

// String outputs the location in GenBank notation
func (r Location) String() string {
	if len(r.Parts) > 0 {
		parts := make([]string, len(r.Parts))
		for i, part := range r.Parts {
			parts[i] = part.String()
		}
		return fmt.Sprintf("%s(%s)", r.Operator, strings.Join(parts, ","))
	}
	s := fmt.Sprintf("%d..%d", r.Start+1, r.End)
	if r.Strand == -1 {
		s = "complement(" + s + ")"
	}
	return s
}

// Len returns the number of bases spanned
func (r Location) Len() int {
	return r.End - r.Start
}

// First returns the first part of a join, or the location itself otherwise
func (r Location) First() Location {
	if r.Operator == "join" && len(r.Parts) > 0 {
		return r.Parts[0]
	}
	return r
}

// convertLocation turns a parsed GenBank location into a Location. Nested
// joins are flattened and complemented joins list their parts downstream
// first.
func convertLocation(loc genbank.Location) Location {
	var parts []Location
	for _, sub := range loc.SubLocations {
		part := convertLocation(sub)
		if len(part.Parts) > 0 {
			parts = append(parts, part.Parts...)
		} else {
			parts = append(parts, part)
		}
	}

	var r Location
	switch {
	case len(parts) == 0:
		r = Location{Start: loc.Start, End: loc.End, Strand: 1}
	case len(parts) == 1 && !loc.Join:
		r = parts[0]
	default:
		r = compoundLocation("join", parts)
	}
	if loc.Complement {
		r = complementLocation(r)
	}
	return r
}

// complementLocation flips the strand; compound parts are reversed so that
// they stay in biological order
func complementLocation(loc Location) Location {
	if len(loc.Parts) == 0 {
		loc.Strand = -loc.Strand
		return loc
	}
	parts := make([]Location, len(loc.Parts))
	for i, part := range loc.Parts {
		parts[len(parts)-1-i] = complementLocation(part)
	}
	return compoundLocation(loc.Operator, parts)
}

func compoundLocation(operator string, parts []Location) Location {
	loc := Location{Operator: operator, Parts: parts}
	for i, part := range parts {
		if i == 0 {
			loc.Start, loc.End, loc.Strand = part.Start, part.End, part.Strand
			continue
		}
		loc.Start = min(loc.Start, part.Start)
		loc.End = max(loc.End, part.End)
		if part.Strand != loc.Strand {
			loc.Strand = 0
		}
	}
	return loc
}
