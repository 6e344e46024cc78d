// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import "fmt"

// Status is a registry-backed descriptor for a HTTP status code:
// numeric code, reason phrase, category predicate and (optionally) a
// default body template and headers. Grounded on
// original_source/httoop/status/__init__.py's class-scan-built STATUSES
// table, reimplemented here as a Go init()-populated map in the same
// style parse_method.go/parse_headers.go use for their lookup tables.
type Status struct {
	Code        int
	Reason      string
	Description string            // optional supplementary detail, set per-instance
	Headers     map[string]string // default headers to set on composition, if any
	Body        string            // default body template, if any
}

// String implements the Stringer interface ("404 Not Found").
func (s *Status) String() string {
	if s == nil {
		return "<nil status>"
	}
	return fmt.Sprintf("%d %s", s.Code, s.Reason)
}

// Error implements the error interface, so a *Status can be returned
// and compared anywhere a plain error is expected (spec.md §3: "Status
// instances are both values and throwable carriers").
func (s *Status) Error() string {
	if s.Description == "" {
		return s.String()
	}
	return fmt.Sprintf("%s: %s", s.String(), s.Description)
}

// With returns a copy of s carrying description, for call sites that
// want a specific instance message without mutating the registry's
// shared descriptor (e.g. BadRequest("missing Host header")).
func (s *Status) With(description string) *Status {
	cp := *s
	cp.Description = description
	return &cp
}

// Informational, Success, Redirect, ClientError and ServerError
// implement the category predicates spec.md §3 requires.
func (s *Status) Informational() bool { return s.Code >= 100 && s.Code < 200 }
func (s *Status) Success() bool       { return s.Code >= 200 && s.Code < 300 }
func (s *Status) Redirect() bool      { return s.Code >= 300 && s.Code < 400 }
func (s *Status) ClientError() bool   { return s.Code >= 400 && s.Code < 500 }
func (s *Status) ServerError() bool   { return s.Code >= 500 && s.Code < 600 }

var statusRegistry = map[int]*Status{}

func registerStatus(code int, reason string, hdrs map[string]string, body string) {
	statusRegistry[code] = &Status{Code: code, Reason: reason, Headers: hdrs, Body: body}
}

func init() {
	registerStatus(100, "Continue", nil, "")
	registerStatus(101, "Switching Protocols", nil, "")
	registerStatus(200, "OK", nil, "")
	registerStatus(201, "Created", nil, "")
	registerStatus(202, "Accepted", nil, "")
	registerStatus(203, "Non-Authoritative Information", nil, "")
	registerStatus(204, "No Content", nil, "")
	registerStatus(205, "Reset Content", nil, "")
	registerStatus(206, "Partial Content", nil, "")
	registerStatus(300, "Multiple Choices", nil, "")
	registerStatus(301, "Moved Permanently", nil, "")
	registerStatus(302, "Found", nil, "")
	registerStatus(303, "See Other", nil, "")
	registerStatus(304, "Not Modified", nil, "")
	registerStatus(305, "Use Proxy", nil, "")
	registerStatus(307, "Temporary Redirect", nil, "")
	registerStatus(400, "Bad Request", nil, "")
	registerStatus(401, "Unauthorized", nil, "")
	registerStatus(402, "Payment Required", nil, "")
	registerStatus(403, "Forbidden", nil, "")
	registerStatus(404, "Not Found", nil, "")
	registerStatus(405, "Method Not Allowed", nil, "") // Allow set per-response
	registerStatus(406, "Not Acceptable", nil, "")
	registerStatus(407, "Proxy Authentication Required", nil, "")
	registerStatus(408, "Request Timeout", nil, "")
	registerStatus(409, "Conflict", nil, "")
	registerStatus(410, "Gone", nil, "")
	registerStatus(411, "Length Required", nil, "")
	registerStatus(412, "Precondition Failed", nil, "")
	registerStatus(413, "Payload Too Large", nil, "")
	registerStatus(414, "URI Too Long", nil, "")
	registerStatus(415, "Unsupported Media Type", nil, "")
	registerStatus(416, "Range Not Satisfiable", nil, "")
	registerStatus(417, "Expectation Failed", nil, "")
	registerStatus(418, "I'm a teapot", nil, "")
	registerStatus(431, "Request Header Fields Too Large", nil, "")
	registerStatus(500, "Internal Server Error", nil, "")
	registerStatus(501, "Not Implemented", nil, "")
	registerStatus(502, "Bad Gateway", nil, "")
	registerStatus(503, "Service Unavailable", nil, "")
	registerStatus(504, "Gateway Timeout", nil, "")
	registerStatus(505, "HTTP Version Not Supported", nil, "")
}

// StatusByCode returns the registered descriptor for code, or a generic
// unregistered-code descriptor ("xyz Unknown Status") if code is not one
// of the standard codes spec.md §6 enumerates.
func StatusByCode(code int) *Status {
	if s, ok := statusRegistry[code]; ok {
		return s
	}
	return &Status{Code: code, Reason: "Unknown Status"}
}

// The following constructors mirror original_source/httoop's
// BAD_REQUEST(description)-style per-instance status builders
// (spec.md §6), each returning a fresh *Status carrying description so
// the shared registry entry is never mutated.
func BadRequest(description string) *Status            { return StatusByCode(400).With(description) }
func NotFound(description string) *Status              { return StatusByCode(404).With(description) }
func LengthRequired(description string) *Status        { return StatusByCode(411).With(description) }
func URITooLong(description string) *Status             { return StatusByCode(414).With(description) }
func UnsupportedMediaType(description string) *Status   { return StatusByCode(415).With(description) }
func RequestHeaderFieldsTooLarge(description string) *Status {
	return StatusByCode(431).With(description)
}
func NotImplemented(description string) *Status        { return StatusByCode(501).With(description) }
func HTTPVersionNotSupported(description string) *Status {
	return StatusByCode(505).With(description)
}
func MovedPermanently(description string) *Status { return StatusByCode(301).With(description) }
