// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, p []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(p)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func deflateBytes(t *testing.T, p []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(p)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestBodyRawAndLen(t *testing.T) {
	b := NewBody([]byte("payload"), nil, "text/plain")
	require.Equal(t, []byte("payload"), b.Raw())
	require.Equal(t, 7, b.Len())
	require.Equal(t, "text/plain", b.MimeType())
}

func TestBodyDecodedIdentity(t *testing.T) {
	b := NewBody([]byte("hello"), nil, "")
	got, err := b.Decoded()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestBodyDecodedGzip(t *testing.T) {
	orig := []byte("hello, gzip world")
	raw := gzipBytes(t, orig)
	b := NewBody(raw, []string{"gzip"}, "")
	got, err := b.Decoded()
	require.NoError(t, err)
	require.Equal(t, orig, got)
}

func TestBodyDecodedMultipleCodingsReverseOrder(t *testing.T) {
	orig := []byte("layered payload")
	layer1 := deflateBytes(t, orig)
	wire := gzipBytes(t, layer1)
	b := NewBody(wire, []string{"deflate", "gzip"}, "")
	got, err := b.Decoded()
	require.NoError(t, err)
	require.Equal(t, orig, got)
}

func TestBodyDecodedUnknownCoding(t *testing.T) {
	b := NewBody([]byte("x"), []string{"zstd"}, "")
	_, err := b.Decoded()
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, 415, pe.Status.Code)
}

func TestRegisterCodecOverride(t *testing.T) {
	called := false
	RegisterCodec("x-test-codec", func(r io.Reader) (io.ReadCloser, error) {
		called = true
		return io.NopCloser(r), nil
	})
	b := NewBody([]byte("raw"), []string{"x-test-codec"}, "")
	got, err := b.Decoded()
	require.NoError(t, err)
	require.Equal(t, []byte("raw"), got)
	require.True(t, called)
}
