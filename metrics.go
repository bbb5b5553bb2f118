/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mediatek

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tomoncle/mediatek/database"
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeValidation  = "validation_error"
	OutcomeTransaction = "transaction_error"
	OutcomeStatement   = "statement_error"
	OutcomeError       = "error"
)

// Metrics counts dispatched requests and their durations.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the dispatcher collectors and registers them on reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediatek",
		Subsystem: "dispatcher",
		Name:      "requests_total",
		Help:      "Dispatched catalog requests by operation, route and outcome.",
	}, []string{"operation", "route", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mediatek",
		Subsystem: "dispatcher",
		Name:      "request_duration_seconds",
		Help:      "Duration of dispatched catalog requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	var err error
	if requests, err = registerOrReuse(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = registerOrReuse(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{requests: requests, duration: duration}, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(op, route string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, route, outcomeOf(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case database.IsValidation(err):
		return OutcomeValidation
	case database.IsStatement(err):
		return OutcomeStatement
	case database.IsTransaction(err):
		return OutcomeTransaction
	default:
		return OutcomeError
	}
}
