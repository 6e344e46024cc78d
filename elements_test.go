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

func TestParseElementContentType(t *testing.T) {
	el, err := ParseElement("content-type", "application/json; charset=utf-8")
	require.NoError(t, err)
	ct := el.(*ContentType)
	require.Equal(t, "application", ct.Type)
	require.Equal(t, "json", ct.Subtype)
	require.Equal(t, "utf-8", ct.Params["charset"])
}

func TestParseElementContentEncoding(t *testing.T) {
	el, err := ParseElement("content-encoding", "gzip, br")
	require.NoError(t, err)
	ce := el.(*ContentEncoding)
	require.Equal(t, []string{"gzip", "br"}, ce.Codings)
}

func TestParseElementTransferEncoding(t *testing.T) {
	el, err := ParseElement("transfer-encoding", "chunked")
	require.NoError(t, err)
	te := el.(*TransferEncoding)
	require.Equal(t, TrEncChunkedF, te.Flags&TrEncChunkedF)
}

func TestParseElementTE(t *testing.T) {
	el, err := ParseElement("TE", "trailers, gzip")
	require.NoError(t, err)
	te := el.(*TransferEncoding)
	require.NotZero(t, te.Flags&TrEncTrailersF)
}

func TestParseElementTrailer(t *testing.T) {
	el, err := ParseElement("trailer", "X-Checksum, X-Signature")
	require.NoError(t, err)
	tn := el.(*TrailerNames)
	require.Equal(t, []string{"X-Checksum", "X-Signature"}, tn.Names)
}

func TestParseElementUnknownName(t *testing.T) {
	el, err := ParseElement("x-custom-header", "whatever")
	require.NoError(t, err)
	require.Nil(t, el)
}

func TestParseElementBadContentType(t *testing.T) {
	_, err := ParseElement("content-type", ";;;not-valid")
	require.Error(t, err)
}
