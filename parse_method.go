// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"github.com/intuitivelabs/bytescase"
)

// HTTPMethod is the type used to hold the various HTTP request methods.
type HTTPMethod uint8

// method types
const (
	MUndef HTTPMethod = iota
	MGet
	MHead
	MPost
	MPut
	MDelete
	MConnect
	MOptions
	MTrace
	MPatch
	MOther // must be last
)

// Method2Name translates between a numeric HTTPMethod and the ASCII name.
var Method2Name = [MOther + 1][]byte{
	MUndef:   []byte(""),
	MGet:     []byte("GET"),
	MHead:    []byte("HEAD"),
	MPost:    []byte("POST"),
	MPut:     []byte("PUT"),
	MDelete:  []byte("DELETE"),
	MConnect: []byte("CONNECT"),
	MOptions: []byte("OPTIONS"),
	MTrace:   []byte("TRACE"),
	MPatch:   []byte("PATCH"),
	MOther:   []byte("OTHER"),
}

// Name returns the ASCII HTTP method name.
func (m HTTPMethod) Name() []byte {
	if m > MOther {
		return Method2Name[MUndef]
	}
	return Method2Name[m]
}

// String implements the Stringer interface (converts the method to string,
// similar to Name()).
func (m HTTPMethod) String() string {
	return string(m.Name())
}

// Safe returns true for methods that must not carry side effects and
// must not carry a request body ({GET, HEAD}).
func (m HTTPMethod) Safe() bool {
	switch m {
	case MGet, MHead:
		return true
	}
	return false
}

// Idempotent returns true for methods whose repeat yields the same
// server state ({GET, HEAD, PUT, DELETE, OPTIONS, TRACE}).
func (m HTTPMethod) Idempotent() bool {
	switch m {
	case MGet, MHead, MPut, MDelete, MOptions, MTrace:
		return true
	}
	return false
}

// isMethodChar reports whether c is a valid request-line method
// character. Unlike the generic RFC 7230 "token" grammar (which also
// admits "! # % & ' * + ^ ` | ~"), spec.md §3 restricts a method to
// [A-Z0-9$-_.]: uppercase letters, digits, and the four punctuation
// marks "$", "-", "_" and ".".
func isMethodChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
		return true
	}
	switch c {
	case '$', '-', '_', '.':
		return true
	}
	return false
}

// ParseMethodToken validates a raw request-line method token against
// spec.md §3's method grammar ([A-Z0-9$-_.]{1,20}) and classifies it. An
// empty or oversized (>20 bytes) or invalid-character token is rejected.
func ParseMethodToken(b []byte) (HTTPMethod, error) {
	if len(b) == 0 || len(b) > 20 {
		return MUndef, ErrBadRequestLine
	}
	for _, c := range b {
		if !isMethodChar(c) {
			return MUndef, ErrBadRequestLine
		}
	}
	return GetMethodNo(b), nil
}

// GetMethodNo converts from an ASCII HTTP method name (compared
// case-insensitively) to the corresponding numeric internal value.
func GetMethodNo(buf []byte) HTTPMethod {
	i := hashMthName(buf)
	for _, m := range mthNameLookup[i] {
		if bytescase.CmpEq(buf, m.n) {
			return m.t
		}
	}
	return MOther
}

// magic values: after adding/removing methods run tests again
// looking for max. elem per bucket == 1 for minimum hash size
const (
	mthBitsLen   uint = 2 //re-run tests after changing
	mthBitsFChar uint = 3
)

type mth2Type struct {
	n []byte
	t HTTPMethod
}

var mthNameLookup [1 << (mthBitsLen + mthBitsFChar)][]mth2Type

func hashMthName(n []byte) int {
	const (
		mC = (1 << mthBitsFChar) - 1
		mL = (1 << mthBitsLen) - 1
	)
	return (int(bytescase.ByteToLower(n[0])) & mC) |
		((len(n) & mL) << mthBitsFChar)
}

func init() {
	// init lookup method-to-type array
	for i := MUndef + 1; i < MOther; i++ {
		h := hashMthName(Method2Name[i])
		mthNameLookup[h] =
			append(mthNameLookup[h], mth2Type{Method2Name[i], i})
	}
}
