// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "testing"

func TestGetMethodNo(t *testing.T) {
	cases := []struct {
		name string
		want HTTPMethod
	}{
		{"GET", MGet},
		{"HEAD", MHead},
		{"POST", MPost},
		{"PUT", MPut},
		{"DELETE", MDelete},
		{"CONNECT", MConnect},
		{"OPTIONS", MOptions},
		{"TRACE", MTrace},
		{"PATCH", MPatch},
		{"FROB", MOther},
	}
	for _, c := range cases {
		if got := GetMethodNo([]byte(c.name)); got != c.want {
			t.Errorf("GetMethodNo(%q) = %v, want %v", c.name, got, c.want)
		}
		if got := GetMethodNo([]byte(randCase(c.name))); got != c.want {
			t.Errorf("GetMethodNo(%q, randomized case) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMethodSafeIdempotent(t *testing.T) {
	safe := map[HTTPMethod]bool{MGet: true, MHead: true}
	idem := map[HTTPMethod]bool{
		MGet: true, MHead: true, MPut: true, MDelete: true,
		MOptions: true, MTrace: true,
	}
	for m := MUndef; m <= MOther; m++ {
		if got := m.Safe(); got != safe[m] {
			t.Errorf("%v.Safe() = %v, want %v", m, got, safe[m])
		}
		if got := m.Idempotent(); got != idem[m] {
			t.Errorf("%v.Idempotent() = %v, want %v", m, got, idem[m])
		}
	}
}

func TestParseMethodToken(t *testing.T) {
	ok := []string{"GET", "POST", "X-CUSTOM", "A", "A.B_C-D$E"}
	for _, s := range ok {
		if _, err := ParseMethodToken([]byte(s)); err != nil {
			t.Errorf("ParseMethodToken(%q) unexpected error: %v", s, err)
		}
	}
	bad := []string{
		"", "GET POST", "G(ET)", "this-method-name-is-far-too-long-to-be-valid",
		"get", "G*T", "G!T", "G#T", "G&T", "G'T", "G+T", "G^T", "G`T", "G|T", "G~T", "G%T",
	}
	for _, s := range bad {
		if _, err := ParseMethodToken([]byte(s)); err == nil {
			t.Errorf("ParseMethodToken(%q) expected error, got nil", s)
		}
	}
}

func TestParseMethodTokenClassifies(t *testing.T) {
	m, err := ParseMethodToken([]byte("PUT"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != MPut {
		t.Errorf("got %v, want MPut", m)
	}
}
