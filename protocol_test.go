// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProtocolToken(t *testing.T) {
	p, err := ParseProtocolToken([]byte("HTTP/1.1"))
	require.NoError(t, err)
	require.Equal(t, Protocol{1, 1}, p)
	require.True(t, p.Supported())
}

func TestParseProtocolTokenMalformed(t *testing.T) {
	for _, s := range []string{"HTTP/1", "HTTP/.1", "FTP/1.1", "HTTP/1.", ""} {
		_, err := ParseProtocolToken([]byte(s))
		require.Errorf(t, err, "expected error for %q", s)
	}
}

func TestProtocolOrdering(t *testing.T) {
	require.True(t, HTTP10.Less(HTTP11))
	require.False(t, HTTP11.Less(HTTP10))
	require.Equal(t, HTTP10, HTTP10.Min(HTTP11))
	require.Equal(t, "HTTP/1.1", HTTP11.String())
}

func TestProtocolSupported(t *testing.T) {
	require.True(t, HTTP10.Supported())
	require.True(t, HTTP11.Supported())
	require.False(t, Protocol{2, 0}.Supported())
	require.False(t, Protocol{0, 9}.Supported())
}
