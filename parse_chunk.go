// Copyright 2022 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "bytes"

// ChunkVal contains a parsed "chunk" delimiter.
type ChunkVal struct {
	Size        int64  // chunk size
	TrailerHdrs HdrLst // trailer headers if last chunk
	state       uint8  // internal state
}

// Reset re-initializes the parsed chunk value.
func (v *ChunkVal) Reset() {
	v.Size = 0
	v.TrailerHdrs.Reset()
	v.state = 0
}

// More returns true if a data chunk (not the terminal zero-size one) was
// parsed.
func (v *ChunkVal) More() bool {
	return v.Size > 0
}

const (
	sCnkParse uint8 = iota
	sCnkPTrailer
)

// ParseChunk parses a chunk-size line: hex-size [";" chunk-ext] CRLF (RFC
// 7230 §4.1). Chunk extensions are accepted and discarded, matching the
// original parser's "chunk_size = line.split(b';', 1)[0].strip()".
//
// Return values: a new offset that is either the chunk-data start (after
// the size-line CRLF, for a data chunk) or the offset right before the
// final CRLF (for the zero-size/last chunk, after any trailers have been
// consumed), the chunk size in bytes (not including the final CRLF), and
// an error. ErrHdrMoreBytes is returned if more data is needed; retry
// with the same chunk and the returned offset.
func ParseChunk(buf []byte, offs int, chunk *ChunkVal) (int, int64, ErrorHdr) {
	var next int
	var err ErrorHdr
	size := int64(-1)

retry:
	switch chunk.state {
	case sCnkParse:
		end, crl, lerr := skipLine(buf, offs)
		if lerr != ErrHdrOk {
			return offs, -1, lerr
		}
		line := buf[offs : end-crl]
		if ext := bytes.IndexByte(line, ';'); ext >= 0 {
			line = line[:ext]
		}
		line = bytes.TrimSpace(line)
		sz, ok := hexToU(line)
		if !ok {
			return offs, -1, ErrHdrValNotNumber
		}
		size = int64(sz)
		chunk.Size = size
		next = end
		if size == 0 {
			chunk.state = sCnkPTrailer
			offs = next
			goto retry
		}
	case sCnkPTrailer:
		var terr ErrorHdr
		next, terr = ParseHeaders(buf, offs, &chunk.TrailerHdrs, nil)
		err = terr
		switch terr {
		case ErrHdrEmpty:
			// trailer section with no headers => ok
			err = ErrHdrOk
			next -= 2 // return before the final CRLF
		case ErrHdrOk:
			next -= 2
		}
		size = chunk.Size
	}
	return next, size, err
}
