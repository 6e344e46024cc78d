// Copyright 2024 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

//go:build prometheus

package httpmsg

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpmsg",
		Subsystem: "server",
		Name:      "requests_total",
		Help:      "Total number of requests dispatched to a Handler.",
	}, []string{"method"})

	responsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpmsg",
		Subsystem: "server",
		Name:      "responses_total",
		Help:      "Total number of composed responses, by status code.",
	}, []string{"status"})

	parseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpmsg",
		Subsystem: "server",
		Name:      "parse_errors_total",
		Help:      "Total number of requests that failed to parse, by status code.",
	}, []string{"status"})
)

func observeRequest(m HTTPMethod) {
	requestsTotal.WithLabelValues(m.String()).Inc()
}

func observeResponse(code int) {
	responsesTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

func observeParseError(code int) {
	parseErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}
