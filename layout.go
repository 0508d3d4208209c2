/*
 *  layout.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"math"
	"sort"
	"strings"
)

// extent is the horizontal footprint of a feature and its label, in pixels
type extent struct {
	left, right float64
}

// assignLevels stacks extents so that no two extents on the same level are
// closer than pad. Returns the level of each extent and the number of levels.
func assignLevels(extents []extent, pad float64) ([]int, int) {
	order := make([]int, len(extents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return extents[order[i]].left < extents[order[j]].left
	})

	levels := make([]int, len(extents))
	var ends []float64
	for _, i := range order {
		e := extents[i]
		level := -1
		for l, end := range ends {
			if end+pad <= e.left {
				level = l
				break
			}
		}
		if level < 0 {
			level = len(ends)
			ends = append(ends, e.right)
		} else {
			ends[level] = e.right
		}
		levels[i] = level
	}
	return levels, len(ends)
}

// scale maps sequence coordinates onto pixels; lo > hi draws the axis reversed
type scale struct {
	x, w   float64
	lo, hi float64
}

func (s scale) px(pos float64) float64 {
	return s.x + (pos-s.lo)/(s.hi-s.lo)*s.w
}

// visible clips [a, b] to the displayed range, in sequence coordinates
func (s scale) visible(a, b float64) (float64, float64, bool) {
	lo, hi := minf(s.lo, s.hi), maxf(s.lo, s.hi)
	a, b = maxf(a, lo), minf(b, hi)
	return a, b, a <= b
}

// reversed tells if coordinates increase to the left
func (s scale) reversed() bool {
	return s.hi < s.lo
}

// niceStep picks a 1-2-5 tick spacing giving about target ticks
func niceStep(span float64, target int) float64 {
	if span <= 0 || target <= 0 {
		return 1
	}
	raw := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

// ticks lists the multiples of step within [lo, hi] (in either order)
func ticks(lo, hi float64, target int) []float64 {
	a, b := minf(lo, hi), maxf(lo, hi)
	step := niceStep(b-a, target)
	var ts []float64
	for t := math.Ceil(a/step) * step; t <= b; t += step {
		ts = append(ts, t)
	}
	return ts
}

// textWidth estimates the rendered width of a (multi-line) label
func textWidth(label string, fontSize float64) float64 {
	longest := 0
	for _, line := range strings.Split(label, "\n") {
		if n := len([]rune(line)); n > longest {
			longest = n
		}
	}
	return float64(longest) * fontSize * 0.6
}
