package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	chatOutcomes map[string]int64
	latencyTotal map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		chatOutcomes: make(map[string]int64),
		latencyTotal: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latencyTotal[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordChatOutcome counts how chat sends finished (ok, empty, error, rejected).
func (m *Metrics) RecordChatOutcome(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatOutcomes[outcome]++
}

// RequestStat is one request counter line.
type RequestStat struct {
	Key         string  `json:"key"`
	Count       int64   `json:"count"`
	AvgMillisec float64 `json:"avg_ms"`
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Requests     []RequestStat    `json:"requests"`
	Errors       map[string]int64 `json:"errors"`
	ChatOutcomes map[string]int64 `json:"chat_outcomes"`
}

// Snapshot copies the counters; request lines are sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	out := Snapshot{
		Requests:     []RequestStat{},
		Errors:       map[string]int64{},
		ChatOutcomes: map[string]int64{},
	}
	if m == nil {
		return out
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, count := range m.requestCount {
		stat := RequestStat{Key: key, Count: count}
		if count > 0 {
			stat.AvgMillisec = float64(m.latencyTotal[key].Microseconds()) / 1000 / float64(count)
		}
		out.Requests = append(out.Requests, stat)
	}
	sort.Slice(out.Requests, func(i, j int) bool { return out.Requests[i].Key < out.Requests[j].Key })
	for key, count := range m.errorCount {
		out.Errors[key] = count
	}
	for key, count := range m.chatOutcomes {
		out.ChatOutcomes[key] = count
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
