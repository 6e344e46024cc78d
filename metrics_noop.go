// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

//go:build !prometheus

package httpmsg

// No-op metrics hooks used when built without the "prometheus" tag, so
// server.go can call these unconditionally regardless of build tags.
// See metrics.go for the real Prometheus collectors.
func observeRequest(m HTTPMethod) {}
func observeResponse(code int)    {}
func observeParseError(code int)  {}
