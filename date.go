// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "time"

// The three date-header layouts spec.md §6 requires on parse: RFC 1123
// (preferred, IMF-fixdate), RFC 850 (obsolete, two-digit year) and ANSI C
// asctime (used by old clients; note: no explicit timezone).
const (
	rfc1123Layout  = "Mon, 02 Jan 2006 15:04:05 GMT"
	rfc850Layout   = "Monday, 02-Jan-06 15:04:05 GMT"
	asctimeLayout  = "Mon Jan  2 15:04:05 2006"
)

// ComposeLayout is the layout always used for composition, regardless of
// which form was parsed (spec.md §6: "compose always emits RFC 1123").
const ComposeLayout = rfc1123Layout

// ParseDate parses a HTTP-date header value in any of the three accepted
// forms. There is no pack library here for "parse one of these three
// specific HTTP-date grammars" (it is not general date/time parsing);
// time.Parse with the known layout constants is the idiomatic stdlib
// tool for a small fixed set of layouts and is used directly.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{rfc1123Layout, rfc850Layout, asctimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ComposeDate renders t as a RFC 1123 (IMF-fixdate) HTTP-date string.
func ComposeDate(t time.Time) string {
	return t.UTC().Format(ComposeLayout)
}
