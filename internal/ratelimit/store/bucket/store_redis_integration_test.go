//go:build integration

package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"threecs/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	ctx   context.Context
}

func TestRedisBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.ctx = context.Background()
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.store = NewRedisBucketStore(s.redis.Client)
}

func (s *RedisBucketStoreSuite) TestFixedWindow() {
	key := "ratelimit:ip:10.0.0.1:submit"
	for i := range 5 {
		result, err := s.store.Allow(s.ctx, key, 5, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(4-i, result.Remaining)
	}

	result, err := s.store.Allow(s.ctx, key, 5, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Positive(result.RetryAfter)
	s.LessOrEqual(result.RetryAfter, 60)

	ttl, err := s.redis.Client.TTL(s.ctx, key).Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisBucketStoreSuite) TestWindowExpires() {
	key := "ratelimit:ip:10.0.0.2:submit"
	_, err := s.store.Allow(s.ctx, key, 1, time.Second)
	s.Require().NoError(err)

	denied, err := s.store.Allow(s.ctx, key, 1, time.Second)
	s.Require().NoError(err)
	s.False(denied.Allowed)

	s.Eventually(func() bool {
		result, err := s.store.Allow(s.ctx, key, 1, time.Second)
		return err == nil && result.Allowed
	}, 5*time.Second, 250*time.Millisecond)
}

func (s *RedisBucketStoreSuite) TestCountsPerKey() {
	key := "ratelimit:ip:10.0.0.3:submit"
	for range 3 {
		_, err := s.store.Allow(s.ctx, key, 5, time.Minute)
		s.Require().NoError(err)
	}
	count, err := s.redis.Client.Get(s.ctx, key).Int()
	s.Require().NoError(err)
	s.Equal(3, count)

	other, err := s.store.Allow(s.ctx, "ratelimit:ip:10.0.0.4:submit", 5, time.Minute)
	s.Require().NoError(err)
	s.Equal(4, other.Remaining)
}
