// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrometheusMetricsPassesThrough(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}

func TestMetricsResponseWriterDefaultsTo200(t *testing.T) {
	var captured int
	handler := PrometheusMetrics(func(w http.ResponseWriter, _ *http.Request) {
		// Write without an explicit WriteHeader.
		w.Write([]byte("ok")) //nolint:errcheck
		captured = w.(*metricsResponseWriter).statusCode
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured != http.StatusOK {
		t.Errorf("default status = %d, want 200", captured)
	}
}
