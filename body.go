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
)

// Body is the message body: the raw (still possibly encoded) bytes
// plus enough metadata to decode them on demand. Grounded on
// original_source/httoop's Body class, which keeps the wire bytes
// untouched until a caller asks for the decoded form.
type Body struct {
	raw      []byte
	codings  []string // Content-Encoding codings, outermost last
	mimeType string
}

// NewBody wraps raw message-body bytes with the Content-Encoding
// codings that must be undone to read them, and the negotiated
// mimeType (informational only; Body does not act on it).
func NewBody(raw []byte, codings []string, mimeType string) *Body {
	return &Body{raw: raw, codings: codings, mimeType: mimeType}
}

// Raw returns the body bytes with any chunked transfer coding already
// removed, but still Content-Encoding encoded.
func (b *Body) Raw() []byte { return b.raw }

// MimeType returns the negotiated Content-Type media type, if any.
func (b *Body) MimeType() string { return b.mimeType }

// Len returns the length of the raw (still encoded) body.
func (b *Body) Len() int { return len(b.raw) }

// bodyCodec decodes a single Content-Encoding coding.
type bodyCodec func(r io.Reader) (io.ReadCloser, error)

// codecRegistry maps a Content-Encoding coding name to its decoder.
// gzip and deflate are the two codings RFC 7230 §4.2/§4.1 effectively
// guarantee interoperability for and are covered by the standard
// library; codec_brotli.go registers "br" separately when built with
// the brotli tag, since compress/brotli does not exist in std and
// pulling it in unconditionally would make every caller pay for a
// coding few servers emit.
var codecRegistry = map[string]bodyCodec{
	"gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"x-gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"deflate": func(r io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(r), nil
	},
	"identity": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	},
}

// RegisterCodec adds or overrides the decoder for a Content-Encoding
// coding name. codec_brotli.go uses this to add "br" support when
// built with the brotli build tag.
func RegisterCodec(coding string, c bodyCodec) {
	codecRegistry[coding] = c
}

// Decoded returns the body with every coding in b.codings undone.
// Codings are listed in the order they were applied, so undoing
// proceeds from the last-listed coding to the first.
func (b *Body) Decoded() ([]byte, error) {
	var r io.Reader = bytes.NewReader(b.raw)
	for i := len(b.codings) - 1; i >= 0; i-- {
		codec, ok := codecRegistry[b.codings[i]]
		if !ok {
			return nil, newParseErr(415, ErrUnknownEncoding)
		}
		rc, err := codec(r)
		if err != nil {
			return nil, newParseErr(400, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, newParseErr(400, err)
		}
		r = bytes.NewReader(data)
	}
	return io.ReadAll(r)
}
