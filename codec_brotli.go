// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

//go:build brotli

package httpmsg

import (
	"io"

	"github.com/andybalholm/brotli"
)

func init() {
	RegisterCodec("br", func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	})
}
