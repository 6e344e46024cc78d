// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDateAllForms(t *testing.T) {
	want := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)
	forms := []string{
		"Sun, 06 Nov 1994 08:49:37 GMT", // RFC 1123
		"Sunday, 06-Nov-94 08:49:37 GMT", // RFC 850
		"Sun Nov  6 08:49:37 1994",       // asctime
	}
	for _, f := range forms {
		got, err := ParseDate(f)
		require.NoErrorf(t, err, "parsing %q", f)
		require.Truef(t, got.Equal(want), "parsing %q: got %v, want %v", f, got, want)
	}
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("not a date")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestComposeDateRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 2, 15, 4, 5, 0, time.UTC)
	s := ComposeDate(in)
	require.Equal(t, "Sat, 02 Mar 2024 15:04:05 GMT", s)
	got, err := ParseDate(s)
	require.NoError(t, err)
	require.True(t, got.Equal(in))
}
