/*
 *  commands_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "loci.svg")
	rootCmd.SetArgs([]string{"plot", filepath.Join("tests", "loci.yaml"), "-o", output, "--span", "800"})
	require.NoError(t, Execute())

	b, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "<?xml"))
	assert.Contains(t, string(b), `data-locus-tag="OTHER_0001"`)
}

func TestLocusCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "locus.svg")
	rootCmd.SetArgs([]string{"locus", filepath.Join("tests", "test.gbk"), "TEST_0005", "-o", output, "--gc"})
	require.NoError(t, Execute())

	b, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(b), `class="gc"`)
	assert.Contains(t, string(b), ">End of contig</text>")
}

func TestCommandWithoutSettings(t *testing.T) {
	rootCmd.SetArgs([]string{"html"})
	assert.Error(t, Execute())
}
