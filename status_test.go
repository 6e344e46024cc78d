// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusByCodeKnown(t *testing.T) {
	s := StatusByCode(404)
	require.Equal(t, "Not Found", s.Reason)
	require.Equal(t, "404 Not Found", s.String())
	require.True(t, s.ClientError())
	require.False(t, s.Success())
}

func TestStatusByCodeUnknown(t *testing.T) {
	s := StatusByCode(499)
	require.Equal(t, "Unknown Status", s.Reason)
	require.True(t, s.ClientError())
}

func TestStatusCategoryPredicates(t *testing.T) {
	require.True(t, StatusByCode(100).Informational())
	require.True(t, StatusByCode(200).Success())
	require.True(t, StatusByCode(301).Redirect())
	require.True(t, StatusByCode(404).ClientError())
	require.True(t, StatusByCode(500).ServerError())
}

func TestStatusIsError(t *testing.T) {
	var err error = BadRequest("missing Host header")
	require.EqualError(t, err, "400 Bad Request: missing Host header")
}

func TestStatusWithDoesNotMutateRegistry(t *testing.T) {
	base := StatusByCode(400)
	_ = base.With("one specific failure")
	require.Equal(t, "", StatusByCode(400).Description,
		"With must not mutate the shared registry entry")
}

func TestConstructors(t *testing.T) {
	require.Equal(t, 404, NotFound("x").Code)
	require.Equal(t, 411, LengthRequired("x").Code)
	require.Equal(t, 414, URITooLong("x").Code)
	require.Equal(t, 415, UnsupportedMediaType("x").Code)
	require.Equal(t, 431, RequestHeaderFieldsTooLarge("x").Code)
	require.Equal(t, 501, NotImplemented("x").Code)
	require.Equal(t, 505, HTTPVersionNotSupported("x").Code)
	require.Equal(t, 301, MovedPermanently("x").Code)
}
