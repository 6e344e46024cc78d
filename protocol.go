// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "fmt"

// Protocol is a HTTP version tuple (major, minor), ordered
// lexicographically: (1,0) < (1,1).
type Protocol struct {
	Major byte
	Minor byte
}

// HTTP10 and HTTP11 are the only protocol versions this core accepts
// (spec.md §3: "supported range (1,0)-(1,1)").
var (
	HTTP10 = Protocol{Major: 1, Minor: 0}
	HTTP11 = Protocol{Major: 1, Minor: 1}
)

// String implements the Stringer interface.
func (p Protocol) String() string {
	return fmt.Sprintf("HTTP/%d.%d", p.Major, p.Minor)
}

// Less reports whether p sorts before o (major, then minor).
func (p Protocol) Less(o Protocol) bool {
	if p.Major != o.Major {
		return p.Major < o.Major
	}
	return p.Minor < o.Minor
}

// Min returns the lexicographically smaller of p and o, used by
// statemachine.go to compute the response protocol (spec.md §4.J:
// "Set response protocol = min(request protocol, server protocol)").
func (p Protocol) Min(o Protocol) Protocol {
	if o.Less(p) {
		return o
	}
	return p
}

// Supported reports whether p is in the (1,0)-(1,1) range this core
// implements.
func (p Protocol) Supported() bool {
	return p.Major == 1 && (p.Minor == 0 || p.Minor == 1)
}

// ParseProtocolToken parses a raw "HTTP/<major>.<minor>" token (as
// extracted by ParseFLine into PFLine.Version) into a Protocol. Version
// components wider than one digit (e.g. "HTTP/10.1") are accepted
// syntactically and rejected later by Supported(), mirroring the
// request-line phase's "if request protocol major > server's supported
// major: 505" post-condition rather than failing the token grammar
// itself.
func ParseProtocolToken(b []byte) (Protocol, error) {
	const pref = "HTTP/"
	if len(b) < len(pref)+3 || string(b[:len(pref)]) != pref {
		return Protocol{}, ErrBadRequestLine
	}
	rest := b[len(pref):]
	dot := -1
	for i, c := range rest {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 || dot >= len(rest)-1 {
		return Protocol{}, ErrBadRequestLine
	}
	major, ok1 := parseDigits(rest[:dot])
	minor, ok2 := parseDigits(rest[dot+1:])
	if !ok1 || !ok2 || major > 255 || minor > 255 {
		return Protocol{}, ErrBadRequestLine
	}
	return Protocol{Major: byte(major), Minor: byte(minor)}, nil
}

func parseDigits(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint64(c-'0')
	}
	return v, true
}
