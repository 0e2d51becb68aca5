package catalog_test

import (
	"context"
	"sync"
	"time"

	"heblo/internal/core/ports"
)

type stubScheduler struct {
	mu      sync.Mutex
	sources []string
}

func (s *stubScheduler) SetMergeCallback(ports.MergeFunc) {}

func (s *stubScheduler) ScheduleMerge(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, source)
}

func (s *stubScheduler) scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sources...)
}

func (s *stubScheduler) IsMergeInProgress() bool { return false }
func (s *stubScheduler) HasPendingMerge() bool { return false }
func (s *stubScheduler) LastMergeTime() time.Time { return time.Time{} }
func (s *stubScheduler) WaitForCurrentMerge(context.Context) error { return nil }
