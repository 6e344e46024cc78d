// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpmsg

import (
	"fmt"
	"io"
	"net"

	"github.com/intuitivelabs/slog"
)

// Client sends a Request on a connection and parses the Response,
// symmetric to Server but driving a status-line StateMachine instead
// of a request-line one.
type Client struct {
	ReadSize      int
	MaxHeaderSize int

	Log *slog.Log
}

// NewClient returns a Client with teacher-style defaults.
func NewClient() *Client {
	l := &slog.Log{}
	l.SetPrefix("httpmsg-client: ")
	return &Client{ReadSize: 4096, Log: l}
}

// Do writes req to conn and blocks until a full Response has been
// parsed off conn, or a parse/IO error occurs.
func (c *Client) Do(conn net.Conn, req *Request) (*Response, error) {
	if err := req.Compose(conn); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	readSize := c.ReadSize
	if readSize <= 0 {
		readSize = 4096
	}
	sm := NewStateMachine(true)
	sm.MaxHeaderSize = c.MaxHeaderSize
	if req.Method == MHead {
		sm.PrevMethod = MHead
	}

	buf := make([]byte, readSize)
	for {
		n, rerr := conn.Read(buf)
		if n > 0 {
			res, perr := sm.Feed(buf[:n])
			if perr != nil {
				if c.Log != nil {
					c.Log.ERR("response parse error: %v", perr)
				}
				return nil, perr
			}
			if res == Complete {
				return sm.Response(), nil
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return nil, fmt.Errorf("connection closed before response completed")
			}
			return nil, rerr
		}
	}
}
