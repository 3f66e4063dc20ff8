// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopMetrics struct{}

func defaultNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (n noopMetrics) GetOrCreateCountMeter(string) CountMeter { return &noopMeters{} }

func (n noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return &noopMeters{} }

func (n noopMetrics) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return &noopMeters{} }

func (n noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return &noopMeters{}
}

func (n noopMetrics) GetOrCreateHandler() http.Handler { return nil }

type noopMeters struct{}

func (n noopMeters) Add(int64)                                  {}
func (n noopMeters) AddWithLabel(int64, map[string]string)      {}
func (n noopMeters) SetWithLabel(int64, map[string]string)      {}
func (n noopMeters) ObserveWithLabels(int64, map[string]string) {}
