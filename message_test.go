// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestComposeSetsContentLength(t *testing.T) {
	req := &Request{
		Message: Message{
			Protocol: HTTP11,
			Headers:  Headers{},
			Body:     *NewBody([]byte("hello"), nil, ""),
		},
		Method: MPost,
		URI:    URI{Path: "/submit"},
	}
	req.Headers.Set("Host", "example.com")

	var buf bytes.Buffer
	require.NoError(t, req.Compose(&buf))
	out := buf.String()
	require.Contains(t, out, "POST /submit HTTP/1.1\r\n")
	require.Contains(t, out, "Content-Length: 5\r\n")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\r\n\r\nhello")))
}

func TestResponseComposeStatusLine(t *testing.T) {
	resp := &Response{
		Message: Message{Protocol: HTTP11, Headers: Headers{}, Body: *NewBody(nil, nil, "")},
		Status:  *StatusByCode(200),
	}
	var buf bytes.Buffer
	require.NoError(t, resp.Compose(&buf))
	require.Contains(t, buf.String(), "HTTP/1.1 200 OK\r\n")
	require.Contains(t, buf.String(), "Content-Length: 0\r\n")
}

func TestMessageChunkedDetection(t *testing.T) {
	m := &Message{Headers: Headers{}}
	require.False(t, m.chunked())
	m.Headers.Set("Transfer-Encoding", "chunked")
	require.True(t, m.chunked())
}

func TestMessageComposeChunked(t *testing.T) {
	req := &Request{
		Message: Message{
			Protocol: HTTP11,
			Headers:  Headers{},
			Body:     *NewBody([]byte("abc"), nil, ""),
		},
		Method: MPost,
		URI:    URI{Path: "/"},
	}
	req.Headers.Set("Host", "example.com")
	req.Headers.Set("Transfer-Encoding", "chunked")

	var buf bytes.Buffer
	require.NoError(t, req.Compose(&buf))
	out := buf.String()
	require.Contains(t, out, "3\r\nabc\r\n")
	require.Contains(t, out, "0\r\n\r\n")
	require.NotContains(t, out, "Content-Length")
}

func TestMessageComposeChunkedWithTrailers(t *testing.T) {
	req := &Request{
		Message: Message{
			Protocol: HTTP11,
			Headers:  Headers{},
			Body:     *NewBody([]byte("x"), nil, ""),
			Trailers: Headers{},
		},
		Method: MPost,
		URI:    URI{Path: "/"},
	}
	req.Headers.Set("Host", "example.com")
	req.Headers.Set("Transfer-Encoding", "chunked")
	req.Trailers.Set("X-Checksum", "abc123")

	var buf bytes.Buffer
	require.NoError(t, req.Compose(&buf))
	out := buf.String()
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("X-Checksum: abc123\r\n\r\n")))
	_ = out
}
