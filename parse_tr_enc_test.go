// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "testing"

func TestTrEncResolve(t *testing.T) {
	cases := map[string]TrEncT{
		"chunked":    TrEncChunkedF,
		"CHUNKED":    TrEncChunkedF,
		"gzip":       TrEncGzipF,
		"deflate":    TrEncDeflateF,
		"compress":   TrEncCompressF,
		"identity":   TrEncIdentityF,
		"trailers":   TrEncTrailersF,
		"x-gzip":     TrEncXGzipF,
		"x-compress": TrEncXCompressF,
		"brotli":     TrEncOtherF,
	}
	for name, want := range cases {
		if got := TrEncResolve([]byte(name)); got != want {
			t.Errorf("TrEncResolve(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseTransferEncodingList(t *testing.T) {
	vals, flags, err := ParseTransferEncodingList([]byte("gzip, chunked"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 2 {
		t.Fatalf("len(vals) = %d, want 2", len(vals))
	}
	if vals[0].Enc != TrEncGzipF || vals[1].Enc != TrEncChunkedF {
		t.Errorf("vals = %+v", vals)
	}
	if flags&TrEncChunkedF == 0 || flags&TrEncGzipF == 0 {
		t.Errorf("flags = %v, want both gzip and chunked set", flags)
	}
}

func TestParseTransferEncodingListIgnoresParams(t *testing.T) {
	vals, _, err := ParseTransferEncodingList([]byte("gzip;q=0.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 1 || string(vals[0].Name) != "gzip" {
		t.Errorf("vals = %+v", vals)
	}
}

func TestParseTransferEncodingListEmpty(t *testing.T) {
	if _, _, err := ParseTransferEncodingList([]byte("  ")); err == nil {
		t.Error("expected an error for an empty coding list")
	}
}
