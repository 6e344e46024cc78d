// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"strings"

	"github.com/intuitivelabs/bytescase"
)

// Headers is a case-insensitive, order-preserving, multi-valued header
// map, sitting above the low-level HdrLst the wire parser fills in.
// Grounded on original_source/httoop/util.py's CaseInsensitiveDict:
// lookups fold case, but both the canonical field-name casing and
// insertion order are preserved for composition.
//
// There is no pack library for an ordered case-insensitive multimap
// (net/textproto.MIMEHeader is unordered and canonicalizes destructively
// on every Set); a single insertion-ordered entries slice, scanned
// linearly with case-folded name comparison on every lookup, is the
// hand-rolled replacement (there is no separate name index).
type Headers struct {
	entries []headerEntry
}

type headerEntry struct {
	name  string // as first seen/set, title-cased on Add from raw bytes
	value string
}

// NewHeaders builds a Headers map from a parsed HdrLst and the
// underlying wire buffer.
func NewHeaders(buf []byte, l *HdrLst) *Headers {
	h := &Headers{}
	n := l.N
	if n > len(l.Hdrs) {
		// HdrLst.N can exceed len(Hdrs) (see HdrLst's own doc comment);
		// headers beyond the inline capacity are still counted and
		// available through HdrLst.GetHdr's "first of type" shortcut,
		// but are not replayed into the ordered multimap.
		n = len(l.Hdrs)
	}
	for i := 0; i < n; i++ {
		hd := l.Hdrs[i]
		if hd.Missing() {
			continue
		}
		h.Add(string(hd.Name.Get(buf)), string(hd.Val.Get(buf)))
	}
	return h
}

// Add appends a value under name, canonicalizing name's casing the way
// the wire form is conventionally written ("Content-Type", not
// "content-type"), without disturbing any existing value under the same
// folded name.
func (h *Headers) Add(name, value string) {
	h.entries = append(h.entries, headerEntry{name: canonicalHeaderName(name), value: value})
}

// Set replaces all existing values under name with a single value,
// preserving the position of the first existing occurrence (or
// appending at the end if name was absent).
func (h *Headers) Set(name, value string) {
	folded := bytescase.ByteToLower([]byte(name))
	replaced := false
	out := h.entries[:0]
	for _, e := range h.entries {
		if string(bytescase.ByteToLower([]byte(e.name))) == string(folded) {
			if !replaced {
				out = append(out, headerEntry{name: canonicalHeaderName(name), value: value})
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	h.entries = out
	if !replaced {
		h.Add(name, value)
	}
}

// Get returns the first value stored under name, and whether one
// exists.
func (h *Headers) Get(name string) (string, bool) {
	folded := string(bytescase.ByteToLower([]byte(name)))
	for _, e := range h.entries {
		if string(bytescase.ByteToLower([]byte(e.name))) == folded {
			return e.value, true
		}
	}
	return "", false
}

// Values returns all values stored under name, in insertion order, or
// nil if none exist.
func (h *Headers) Values(name string) []string {
	folded := string(bytescase.ByteToLower([]byte(name)))
	var out []string
	for _, e := range h.entries {
		if string(bytescase.ByteToLower([]byte(e.name))) == folded {
			out = append(out, e.value)
		}
	}
	return out
}

// Has reports whether any value is stored under name.
func (h *Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Pop removes and returns all values stored under name (nil if there
// are none). If sink is non-nil, the removed values are also appended
// to *sink. The trailers phase (statemachine.go's onTrailersComplete)
// calls Pop(name, nil) for each announced name and adds the returned
// values to the main Headers; an announced name that never arrived
// yields nil and adds nothing.
func (h *Headers) Pop(name string, sink *[]string) []string {
	folded := string(bytescase.ByteToLower([]byte(name)))
	var removed []string
	out := h.entries[:0]
	for _, e := range h.entries {
		if string(bytescase.ByteToLower([]byte(e.name))) == folded {
			removed = append(removed, e.value)
			continue
		}
		out = append(out, e)
	}
	h.entries = out
	if sink != nil {
		*sink = append(*sink, removed...)
	}
	return removed
}

// Names returns the canonical name of each distinct header present, in
// first-seen order.
func (h *Headers) Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range h.entries {
		folded := string(bytescase.ByteToLower([]byte(e.name)))
		if seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, e.name)
	}
	return out
}

// Len returns the total number of stored header lines (not distinct
// names).
func (h *Headers) Len() int { return len(h.entries) }

// Reset empties h for reuse.
func (h *Headers) Reset() { h.entries = h.entries[:0] }

// Each calls fn for every stored header line, in wire order.
func (h *Headers) Each(fn func(name, value string)) {
	for _, e := range h.entries {
		fn(e.name, e.value)
	}
}

// Element looks up name's structured parser in the elements registry
// and, if found, parses the first stored value under name. See
// elements.go.
func (h *Headers) Element(name string) (interface{}, error) {
	v, ok := h.Get(name)
	if !ok {
		return nil, nil
	}
	return ParseElement(name, v)
}

// canonicalHeaderName title-cases a header name at each '-'-delimited
// word, e.g. "content-type" -> "Content-Type". There is no ecosystem
// helper for this exact HTTP convention that doesn't also destructively
// canonicalize the map itself (net/textproto.CanonicalMIMEHeaderKey
// would work here but is tied to the textproto.MIMEHeader storage model
// this type deliberately doesn't use); it is a small, direct loop.
func canonicalHeaderName(name string) string {
	b := []byte(name)
	upperNext := true
	for i, c := range b {
		switch {
		case c == '-':
			upperNext = true
		case upperNext:
			b[i] = byte(strings.ToUpper(string(c))[0])
			upperNext = false
		default:
			b[i] = byte(strings.ToLower(string(c))[0])
		}
	}
	return string(b)
}
