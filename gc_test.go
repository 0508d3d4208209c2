/*
 *  gc_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot_test

import (
	"path/filepath"
	"testing"

	"github.com/kshedden/gonpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCProfile(t *testing.T) {
	// ctg1 is GC only on its first half and AT only on its second half
	locus := newLocus(t, "TEST_0001")
	xs, ys, err := locus.GCProfile(100)
	require.NoError(t, err)
	require.Len(t, xs, 1250+200)
	require.Len(t, ys, len(xs))

	assert.Equal(t, -50.0, xs[0])
	assert.Equal(t, 0.0, ys[0])
	// Window [-50, 50) only holds 50 bases of the contig
	assert.InDelta(t, 50.0, ys[50], 1e-9)
	// Window [500, 600)
	assert.Equal(t, 550.0, xs[600])
	assert.InDelta(t, 100.0, ys[600], 1e-9)

	locus = newLocus(t, "TEST_0005")
	xs, ys, err = locus.GCProfile(100)
	require.NoError(t, err)
	assert.Equal(t, 3650.0, xs[0])
	for _, y := range ys {
		assert.InDelta(t, 0.0, y, 1e-9)
	}
}

func TestGCProfileMixed(t *testing.T) {
	// ctg2 repeats AACG
	locus := newLoci(t).Loci[1]
	_, ys, err := locus.GCProfile(20)
	require.NoError(t, err)
	for _, y := range ys {
		assert.InDelta(t, 50.0, y, 1e-9)
	}
}

func TestWriteGCProfile(t *testing.T) {
	dir := t.TempDir()
	locus := newLocus(t, "TEST_0003")
	filename := filepath.Join(dir, "gc.npy")
	require.NoError(t, locus.WriteGCProfile(filename, 100))

	r, err := gonpy.NewFileReader(filename)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2200}, r.Shape)
	data, err := r.GetFloat64()
	require.NoError(t, err)
	assert.Equal(t, 1400.0, data[0])
	assert.InDelta(t, 100.0, data[2200], 1e-9)
}
