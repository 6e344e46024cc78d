// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

// inBuf is the incremental parser's growable input buffer. Unlike the
// original Python parser's "self.buffer = self.buffer + data" (flagged
// there as a TODO: use bytearray), appends amortize with the normal
// Go slice-growth doubling instead of reallocating the whole buffer on
// every feed.
//
// The consumed prefix is intentionally never physically dropped mid-
// message: parsed fields (PFLine, HdrLst) hold offsets into this exact
// backing array for the lifetime of one message, and compacting would
// have to rebase every one of them. One StateMachine parses one
// message; Reset() (called between messages, see server.go's
// pipelining handoff) starts a fresh inBuf, which is where the prefix
// is actually reclaimed.
type inBuf struct {
	buf      []byte
	consumed int // bytes at the front already parsed
}

// Bytes returns the full buffer backing the parser's offsets. PField
// values returned by the byte-level parsers index directly into this
// slice and stay valid until Reset; Consume only moves the read cursor.
func (b *inBuf) Bytes() []byte {
	return b.buf
}

// Len returns the total number of buffered bytes (including consumed
// ones still retained for offset validity).
func (b *inBuf) Len() int {
	return len(b.buf)
}

// Append adds more octets fed by the caller.
func (b *inBuf) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// Consume advances the logical read cursor to absolute offset upto
// (bytes before it are considered parsed).
func (b *inBuf) Consume(upto int) {
	b.consumed = upto
}

// Reset empties the buffer entirely, discarding any in-progress message.
func (b *inBuf) Reset() {
	b.buf = b.buf[:0]
	b.consumed = 0
}
