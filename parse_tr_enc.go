// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// TrEncT is the type used for a Transfer-Encoding/TE token, converted to
// a flag value so a whole list can be OR-ed together cheaply.
type TrEncT uint

// Transfer-Encoding flag values, see
// https://www.rfc-editor.org/rfc/rfc7230#section-4 and
// http://www.iana.org/assignments/http-parameters/http-parameters.xhtml#transfer-coding
const (
	TrEncNone     TrEncT = 0
	TrEncChunkedF TrEncT = 1 << iota
	TrEncCompressF
	TrEncDeflateF
	TrEncGzipF
	TrEncIdentityF
	TrEncTrailersF  // not an actual encoding, used in TE
	TrEncXCompressF // obsolete
	TrEncXGzipF     // obsolete
	TrEncOtherF     // unknown/other
)

// TrEncResolve tries to resolve the encoding name to a numeric TrEncT
// flag.
func TrEncResolve(n []byte) TrEncT {
	switch len(n) {
	case 7:
		if bytescase.CmpEq(n, []byte("chunked")) {
			return TrEncChunkedF
		} else if bytescase.CmpEq(n, []byte("deflate")) {
			return TrEncDeflateF
		}
	case 8:
		if bytescase.CmpEq(n, []byte("compress")) {
			return TrEncCompressF
		} else if bytescase.CmpEq(n, []byte("identity")) {
			return TrEncIdentityF
		} else if bytescase.CmpEq(n, []byte("trailers")) {
			return TrEncTrailersF
		}
	case 4:
		if bytescase.CmpEq(n, []byte("gzip")) {
			return TrEncGzipF
		}
	case 10:
		if bytescase.CmpEq(n, []byte("x-compress")) {
			return TrEncXCompressF
		}
	case 6:
		if bytescase.CmpEq(n, []byte("x-gzip")) {
			return TrEncXGzipF
		}
	}
	return TrEncOtherF
}

// TrEncVal is one parsed Transfer-Encoding/TE list element.
type TrEncVal struct {
	Name []byte // encoding name (params, if any, stripped)
	Enc  TrEncT
}

// ParseTransferEncodingList splits an already-unfolded Transfer-Encoding
// (or TE) header value into its comma-separated codings, ignoring any
// ";params" on each one, and resolves each to a TrEncT flag. Unlike the
// teacher's SIP parser this does not run incrementally against the wire
// buffer: by the time a caller needs this (elements.go's lazy element
// registry, statemachine.go's body-framing decision) the raw header
// value has already been fully read and any obs-fold already joined, so
// there is no "more bytes" case to report.
func ParseTransferEncodingList(value []byte) ([]TrEncVal, TrEncT, error) {
	var out []TrEncVal
	var all TrEncT
	for _, raw := range bytes.Split(value, []byte(",")) {
		tok := bytes.TrimSpace(raw)
		if semi := bytes.IndexByte(tok, ';'); semi >= 0 {
			tok = bytes.TrimSpace(tok[:semi])
		}
		if len(tok) == 0 {
			continue
		}
		enc := TrEncResolve(tok)
		all |= enc
		out = append(out, TrEncVal{Name: tok, Enc: enc})
	}
	if len(out) == 0 {
		return nil, TrEncNone, ErrBadHeaderValue
	}
	return out, all, nil
}
