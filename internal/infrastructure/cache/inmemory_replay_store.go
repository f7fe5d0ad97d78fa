package cache

import (
	"context"
	"sync"
	"time"

	"github.com/van-william/carbon-sub017/internal/domain/shared"
)

var _ shared.ReplayStore = (*InMemoryReplayStore)(nil)

// InMemoryReplayStore keeps seen keys in process memory. It only guards a
// single API instance; run Redis when there are several.
type InMemoryReplayStore struct {
	mu      sync.Mutex
	expires map[string]time.Time

	done     chan struct{}
	swept    sync.WaitGroup
	shutdown sync.Once
}

func NewInMemoryReplayStore() *InMemoryReplayStore {
	return newInMemoryReplayStore(time.Minute)
}

// newInMemoryReplayStore drops expired keys every sweep interval
func newInMemoryReplayStore(sweep time.Duration) *InMemoryReplayStore {
	s := &InMemoryReplayStore{
		expires: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	s.swept.Add(1)
	go func() {
		defer s.swept.Done()
		t := time.NewTicker(sweep)
		defer t.Stop()
		for {
			select {
			case <-s.done:
				return
			case now := <-t.C:
				s.evict(now)
			}
		}
	}()
	return s
}

// MarkSeen reports false while an earlier record of key is still live
func (s *InMemoryReplayStore) MarkSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if until, ok := s.expires[key]; ok && now.Before(until) {
		return false, nil
	}
	s.expires[key] = now.Add(ttl)
	return true, nil
}

// Forget removes key whether or not it is still live
func (s *InMemoryReplayStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, key)
	return nil
}

func (s *InMemoryReplayStore) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, until := range s.expires {
		if !now.Before(until) {
			delete(s.expires, key)
		}
	}
}

// Size counts keys not yet evicted, including expired ones
func (s *InMemoryReplayStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

// Close stops the sweeper; later calls do nothing
func (s *InMemoryReplayStore) Close() error {
	s.shutdown.Do(func() {
		close(s.done)
		s.swept.Wait()
	})
	return nil
}
