// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package progress

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type spanKeyType struct{}

var spanKey = spanKeyType{}

type Status string

const (
	StatusRunning  Status = "Running"
	StatusComplete Status = "Complete"
	StatusFailed   Status = "Failed"
)

// Listener is notified whenever a span starts, advances or finishes. It may be called
// from several goroutines at once.
type Listener func(Progress)

// Tracer records the spans of one run, e.g. an extraction.
type Tracer struct {
	name     string
	spans    sync.Map
	listener Listener
}

func NewTracer(name string, listener Listener) *Tracer {
	return &Tracer{name: name, listener: listener}
}

// Start creates a root span.
func (t *Tracer) Start(ctx context.Context, name string, total int) (context.Context, *Span) {
	span := newSpan(t, name, total)
	t.spans.Store(name, span)
	span.notify()
	return context.WithValue(ctx, spanKey, span), span
}

// List returns the progress of root spans and their children, sorted by start time.
func (t *Tracer) List() []Progress {
	var progress []Progress
	t.spans.Range(func(_, value any) bool {
		span := value.(*Span)
		progress = append(progress, span.List()...)
		return true
	})
	sort.SliceStable(progress, func(i, j int) bool {
		return progress[i].StartTime.Before(progress[j].StartTime)
	})
	return progress
}

type Span struct {
	tracer   *Tracer
	name     string
	total    int
	count    atomic.Int64
	start    time.Time
	children sync.Map

	mu     sync.Mutex
	status Status
	err    error
	finish time.Time
}

func newSpan(tracer *Tracer, name string, total int) *Span {
	return &Span{
		tracer: tracer,
		name:   name,
		total:  total,
		status: StatusRunning,
		start:  time.Now(),
	}
}

// Add advances the span by n units. It is safe to call from concurrent workers.
func (s *Span) Add(n int) {
	s.count.Add(int64(n))
	s.notify()
}

func (s *Span) End() {
	s.mu.Lock()
	if s.status == StatusRunning {
		s.status = StatusComplete
		s.count.Store(int64(s.total))
		s.finish = time.Now()
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Span) Fail(err error) {
	s.mu.Lock()
	s.status = StatusFailed
	s.err = err
	s.finish = time.Now()
	s.mu.Unlock()
	s.notify()
}

func (s *Span) Count() int {
	return int(s.count.Load())
}

func (s *Span) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Progress{
		Name:       s.name,
		Status:     s.status,
		Count:      s.Count(),
		Total:      s.total,
		StartTime:  s.start,
		FinishTime: s.finish,
	}
	if s.tracer != nil {
		p.Tracer = s.tracer.name
	}
	if s.err != nil {
		p.Error = s.err.Error()
	}
	return p
}

func (s *Span) List() []Progress {
	progress := []Progress{s.Progress()}
	s.children.Range(func(_, value any) bool {
		progress = append(progress, value.(*Span).List()...)
		return true
	})
	return progress
}

func (s *Span) notify() {
	if s.tracer != nil && s.tracer.listener != nil {
		s.tracer.listener(s.Progress())
	}
}

// Start creates a child of the span carried by ctx. Without a parent the span is
// detached: it still counts but nobody observes it.
func Start(ctx context.Context, name string, total int) (context.Context, *Span) {
	parent, ok := ctx.Value(spanKey).(*Span)
	if !ok {
		return ctx, newSpan(nil, name, total)
	}
	child := newSpan(parent.tracer, name, total)
	parent.children.Store(name, child)
	child.notify()
	return context.WithValue(ctx, spanKey, child), child
}

type Progress struct {
	Tracer     string
	Name       string
	Status     Status
	Error      string
	Count      int
	Total      int
	StartTime  time.Time
	FinishTime time.Time
}
