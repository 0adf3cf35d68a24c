package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = NewStore()
}

func (s *StoreSuite) TestEmptyByDefault() {
	_, ok := s.store.Get()
	s.False(ok)
}

func (s *StoreSuite) TestSetOverwrites() {
	now := time.Now()
	s.store.Set(Session{Identity: Identity{HouseholdCode: "111122223333"}, AccessToken: "a", IssuedAt: now})
	s.store.Set(Session{Identity: Identity{HouseholdCode: "123456789012"}, AccessToken: "b", IssuedAt: now})

	got, ok := s.store.Get()
	s.Require().True(ok)
	s.Equal("123456789012", got.Identity.HouseholdCode)
	s.Equal("b", got.AccessToken)
}

func (s *StoreSuite) TestGetReturnsCopy() {
	s.store.Set(Session{AccessToken: "a"})

	got, _ := s.store.Get()
	got.AccessToken = "mutated"

	again, _ := s.store.Get()
	s.Equal("a", again.AccessToken)
}

func (s *StoreSuite) TestClearRunsHooks() {
	var calls []string
	s.store.OnClear(func(context.Context) { calls = append(calls, "cart") })
	s.store.OnClear(func(context.Context) { calls = append(calls, "draft") })

	s.store.Set(Session{AccessToken: "a"})
	s.store.Clear(context.Background())

	_, ok := s.store.Get()
	s.False(ok)
	s.Equal([]string{"cart", "draft"}, calls)

	s.store.Clear(context.Background())
	s.Len(calls, 4)
}

func (s *StoreSuite) TestHookMayReadStore() {
	var seen bool
	s.store.OnClear(func(context.Context) { _, seen = s.store.Get() })

	s.store.Set(Session{AccessToken: "a"})
	s.store.Clear(context.Background())
	s.False(seen)
}

func (s *StoreSuite) TestConcurrentAccess() {
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.store.Set(Session{AccessToken: string(rune('a' + i%26))})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.store.Get()
		}()
	}
	wg.Wait()

	_, ok := s.store.Get()
	s.True(ok)
}
