// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "testing"

// feedHeaders drives ParseHeaders one byte at a time and returns the
// filled HdrLst plus the offset right after the header block.
func feedHeaders(t *testing.T, raw string) (HdrLst, PHdrVals, int) {
	t.Helper()
	buf := []byte(raw)
	var hl HdrLst
	hl.Hdrs = make([]Hdr, 10)
	var hv PHdrVals
	off := 0
	for n := 1; n <= len(buf); n++ {
		o, err := ParseHeaders(buf[:n], off, &hl, &hv)
		switch err {
		case ErrHdrOk:
			return hl, hv, o
		case ErrHdrMoreBytes:
			off = o
			continue
		default:
			t.Fatalf("ParseHeaders(%q) unexpected error %v at byte %d", raw, err, n)
		}
	}
	t.Fatalf("ParseHeaders(%q) never completed", raw)
	return hl, hv, 0
}

func TestParseHeadersBasic(t *testing.T) {
	raw := "Host: example.com\r\nContent-Length: 5\r\n\r\n"
	hl, hv, off := feedHeaders(t, raw)
	if hl.N != 2 {
		t.Fatalf("N = %d, want 2", hl.N)
	}
	buf := []byte(raw)
	if got := string(hl.Hdrs[0].Name.Get(buf)); got != "Host" {
		t.Errorf("Hdrs[0].Name = %q", got)
	}
	if got := string(hl.Hdrs[0].Val.Get(buf)); got != "example.com" {
		t.Errorf("Hdrs[0].Val = %q", got)
	}
	if !hv.CLen.Parsed() || hv.CLen.Value != 5 {
		t.Errorf("CLen = %+v", hv.CLen)
	}
	if !hl.PFlags.Test(HdrHost) || !hl.PFlags.Test(HdrCLen) {
		t.Errorf("PFlags = %v", hl.PFlags)
	}
	if off != len(raw) {
		t.Errorf("offset = %d, want %d", off, len(raw))
	}
}

func TestParseHeadersNoHeaders(t *testing.T) {
	buf := []byte("\r\n")
	var hl HdrLst
	hl.Hdrs = make([]Hdr, 10)
	o, err := ParseHeaders(buf, 0, &hl, nil)
	if err != ErrHdrEmpty {
		t.Fatalf("got %v, want ErrHdrEmpty", err)
	}
	if o != 2 {
		t.Errorf("offset = %d, want 2", o)
	}
}

func TestParseHeadersObsFold(t *testing.T) {
	raw := "X-Long: first\r\n second\r\n\r\n"
	hl, _, off := feedHeaders(t, raw)
	if hl.N != 1 {
		t.Fatalf("N = %d, want 1", hl.N)
	}
	buf := []byte(raw)
	// the fold is not rewritten: Val spans the raw bytes including the
	// CRLF+SP, same offset/PField tradeoff the teacher's parser makes
	// for any multi-line field.
	got := string(hl.Hdrs[0].Val.Get(buf))
	want := "first\r\n second"
	if got != want {
		t.Errorf("Val = %q, want %q", got, want)
	}
	if off != len(raw) {
		t.Errorf("offset = %d, want %d", off, len(raw))
	}
}

func TestParseHeadersGetHdrShortcut(t *testing.T) {
	raw := "Host: a.example\r\nHost: b.example\r\n\r\n"
	hl, _, _ := feedHeaders(t, raw)
	h := hl.GetHdr(HdrHost)
	if h == nil || h.Missing() {
		t.Fatal("expected a Host shortcut entry")
	}
	if got := string(h.Val.Get([]byte(raw))); got != "a.example" {
		t.Errorf("GetHdr(HdrHost).Val = %q, want first occurrence", got)
	}
}

func TestParseHeadersBadContentLength(t *testing.T) {
	buf := []byte("Content-Length: not-a-number\r\n\r\n")
	var hl HdrLst
	hl.Hdrs = make([]Hdr, 10)
	var hv PHdrVals
	_, err := ParseHeaders(buf, 0, &hl, &hv)
	if err != ErrHdrValNotNumber {
		t.Errorf("got %v, want ErrHdrValNotNumber", err)
	}
}

func TestParseHeadersOverflowBeyondInlineCapacity(t *testing.T) {
	raw := ""
	for i := 0; i < 3; i++ {
		raw += "X-Tag: v\r\n"
	}
	raw += "\r\n"
	buf := []byte(raw)
	var hl HdrLst
	hl.Hdrs = make([]Hdr, 2) // smaller than the number of headers present
	o, err := ParseHeaders(buf, 0, &hl, nil)
	if err != ErrHdrOk {
		t.Fatalf("unexpected error: %v", err)
	}
	if hl.N != 3 {
		t.Errorf("N = %d, want 3 (N counts headers beyond Hdrs capacity too)", hl.N)
	}
	if o != len(raw) {
		t.Errorf("offset = %d, want %d", o, len(raw))
	}
}
