// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command httpmsgd is a minimal HTTP/1.x echo server built on top of
// github.com/intuitivelabs/httpmsg, exercising the parsing core and
// the Server orchestrator end to end.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/intuitivelabs/httpmsg"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	srv := httpmsg.NewServer("httpmsgd")
	log.Printf("httpmsgd listening on %s", *addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("accept: %v", err)
			continue
		}
		go func(c net.Conn) {
			defer c.Close()
			if err := srv.Serve(c, httpmsg.HandlerFunc(echo)); err != nil {
				log.Printf("conn %s: %v", c.RemoteAddr(), err)
			}
		}(conn)
	}
}

func echo(resp *httpmsg.Response, req *httpmsg.Request) {
	body := []byte(fmt.Sprintf("%s %s\n", req.Method, req.URI.String()))
	resp.Body = *httpmsg.NewBody(body, nil, "text/plain; charset=utf-8")
	resp.Headers.Set("Content-Type", "text/plain; charset=utf-8")
}
