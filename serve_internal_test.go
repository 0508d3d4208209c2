/*
 *  serve_internal_test.go
 *  lociplot
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package lociplot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenAddress(t *testing.T) {
	for _, tc := range []struct {
		port int
		addr string
	}{
		{3000, "localhost:3000"},
		{3001, "localhost:3001"},
		{8080, "localhost:8080"},
	} {
		assert.Equal(t, tc.addr, listenAddress(tc.port))
	}
}

func TestIsAddrInUse(t *testing.T) {
	assert.True(t, isAddrInUse(errors.New("listen tcp 127.0.0.1:3000: bind: address already in use")))
	assert.False(t, isAddrInUse(errors.New("listen tcp: lookup nowhere: no such host")))
}
