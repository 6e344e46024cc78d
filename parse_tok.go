// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE_BSD.txt file in the root of the source
// tree.

package httpmsg

// Byte-level scanning primitives shared by the first-line, header and
// chunk-size parsers. These mirror the teacher's low-level helpers
// (skipToken, skipLWS, skipCRLF ...) but are trimmed down from the SIP
// parser's generic comma/semicolon parameter-list machinery (PToken,
// PTokParam): this core resolves structured header values lazily, on a
// single already-folded value (see elements.go), so the wire-level
// scanners only ever need to find token/line boundaries, not parse
// parameter lists incrementally.

// skipToken advances i while buf[i] is neither SP, CR nor LF. It is used
// for the three request/status-line tokens (method, request-target,
// version / version, status, reason), which are SP-separated and must
// not contain raw CR/LF.
func skipToken(buf []byte, i int) int {
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\r', '\n':
			return i
		}
		i++
	}
	return i
}

// skipTokenDelim advances i up to the first SP, HTAB, CR, LF or delim;
// the bytes it passes over are not checked against the header-name
// grammar.
func skipTokenDelim(buf []byte, i int, delim byte) int {
	for i < len(buf) {
		c := buf[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == delim {
			return i
		}
		i++
	}
	return i
}

// skipWS advances i while buf[i] is SP or HTAB (no line-folding).
func skipWS(buf []byte, i int) int {
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t') {
		i++
	}
	return i
}

// skipCRLF consumes a single line terminator (CRLF, preferred, or a bare
// LF) starting at i. It returns the offset right after the terminator and
// its length (1 or 2). ErrHdrMoreBytes is returned if the terminator is
// not fully present yet.
func skipCRLF(buf []byte, i int) (int, int, ErrorHdr) {
	if i >= len(buf) {
		return i, 0, ErrHdrMoreBytes
	}
	switch buf[i] {
	case '\n':
		return i + 1, 1, ErrHdrOk
	case '\r':
		if i+1 >= len(buf) {
			return i, 0, ErrHdrMoreBytes
		}
		if buf[i+1] == '\n' {
			return i + 2, 2, ErrHdrOk
		}
		return i, 0, ErrHdrBadChar
	}
	return i, 0, ErrHdrBadChar
}

// skipLine advances to the first byte after the current line's
// terminator, returning that offset and the terminator length.
func skipLine(buf []byte, i int) (int, int, ErrorHdr) {
	for j := i; j < len(buf); j++ {
		if buf[j] == '\r' || buf[j] == '\n' {
			return skipCRLF(buf, j)
		}
	}
	return i, 0, ErrHdrMoreBytes
}

// skipLWS folds linear white space, including an obsolete header
// continuation line (a terminator followed by SP/HTAB), per spec.md
// §4.E ("folded continuation lines (LWS start) are joined to the prior
// value"). It returns the offset of the first non-whitespace byte found.
// If the whitespace run ends the current header's value (the terminator
// is not followed by SP/HTAB) it returns ErrHdrEOH, with n pointing at
// the terminator and crl its length (the caller computes n+crl to get
// past it). ErrHdrMoreBytes is returned whenever more input is needed to
// decide.
func skipLWS(buf []byte, i int) (int, int, ErrorHdr) {
	for {
		if i >= len(buf) {
			return i, 0, ErrHdrMoreBytes
		}
		switch buf[i] {
		case ' ', '\t':
			i++
			continue
		case '\r', '\n':
			end, crl, err := skipCRLF(buf, i)
			if err != ErrHdrOk {
				return i, 0, err
			}
			if end >= len(buf) {
				return i, crl, ErrHdrMoreBytes
			}
			if buf[end] == ' ' || buf[end] == '\t' {
				i = end + 1 // folded continuation line
				continue
			}
			return i, crl, ErrHdrEOH
		}
		return i, 0, ErrHdrOk
	}
}

// hexToU parses an ASCII hex digit run into a uint64. It returns
// (0, false) on an empty or invalid input.
func hexToU(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, false
		}
		if v > (1<<60)/16 {
			return 0, false // value would exceed 2^60
		}
		v = v*16 + d
	}
	return v, true
}
