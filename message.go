// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"fmt"
	"io"
	"strconv"
)

// Message is the part common to requests and responses: protocol
// version, headers, body and (if any) trailers, per spec.md §3.
type Message struct {
	Protocol Protocol
	Headers  Headers
	Body     Body
	Trailers Headers
}

// Request is a parsed or to-be-composed HTTP request: a Message plus
// its method and request-target.
type Request struct {
	Message
	Method HTTPMethod
	URI    URI
}

// Response is a parsed or to-be-composed HTTP response: a Message plus
// its status line.
type Response struct {
	Message
	Status Status
}

// chunked reports whether m's Transfer-Encoding lists "chunked" (at any
// position in the list), the framing spec.md §4.J requires checking
// before Content-Length.
func (m *Message) chunked() bool {
	v, ok := m.Headers.Get("Transfer-Encoding")
	if !ok {
		return false
	}
	_, flags, err := ParseTransferEncodingList([]byte(v))
	return err == nil && flags&TrEncChunkedF != 0
}

// Compose writes the request line, headers, blank line and body to w.
// Framing follows spec.md §4.I: chunked if Transfer-Encoding says so,
// else length-framed using Content-Length (set automatically if the
// caller didn't already set one and the body is not chunked).
func (r *Request) Compose(w io.Writer) error {
	target := r.URI.String()
	if _, err := fmt.Fprintf(w, "%s %s %s\r\n", r.Method, target, r.Protocol); err != nil {
		return err
	}
	return r.Message.compose(w)
}

// Compose writes the status line, headers, blank line and body to w.
func (resp *Response) Compose(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %d %s\r\n", resp.Protocol, resp.Status.Code, resp.Status.Reason); err != nil {
		return err
	}
	return resp.Message.compose(w)
}

func (m *Message) compose(w io.Writer) error {
	raw := m.Body.Raw()
	if !m.chunked() && !m.Headers.Has("Content-Length") {
		m.Headers.Set("Content-Length", strconv.Itoa(len(raw)))
	}
	var composeErr error
	m.Headers.Each(func(name, value string) {
		if composeErr != nil {
			return
		}
		_, composeErr = fmt.Fprintf(w, "%s: %s\r\n", name, value)
	})
	if composeErr != nil {
		return composeErr
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}
	if m.chunked() {
		return m.composeChunked(w, raw)
	}
	_, err := w.Write(raw)
	return err
}

// composeChunked writes raw as a single chunk followed by the
// zero-length terminating chunk and any trailers, per RFC 7230 §4.1.
func (m *Message) composeChunked(w io.Writer, raw []byte) error {
	if len(raw) > 0 {
		if _, err := fmt.Fprintf(w, "%x\r\n", len(raw)); err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "0\r\n"); err != nil {
		return err
	}
	var composeErr error
	m.Trailers.Each(func(name, value string) {
		if composeErr != nil {
			return
		}
		_, composeErr = fmt.Fprintf(w, "%s: %s\r\n", name, value)
	})
	if composeErr != nil {
		return composeErr
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
