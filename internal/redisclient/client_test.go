package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errScripted = errors.New("served by script")

// scriptedRedis answers SET NX and GET from fixed scripts without a server.
// An empty read means the key is missing
type scriptedRedis struct {
	claims []bool
	reads  []string
	setnx  int
	gets   int
}

func (s *scriptedRedis) BeforeProcess(ctx context.Context, _ redis.Cmder) (context.Context, error) {
	return ctx, errScripted
}

func (s *scriptedRedis) AfterProcess(_ context.Context, cmd redis.Cmder) error {
	switch c := cmd.(type) {
	case *redis.BoolCmd:
		c.SetErr(nil)
		c.SetVal(s.claims[s.setnx])
		s.setnx++
	case *redis.StringCmd:
		value := s.reads[s.gets]
		s.gets++
		if value == "" {
			c.SetErr(redis.Nil)
			return nil
		}
		c.SetErr(nil)
		c.SetVal(value)
	}
	return nil
}

func (s *scriptedRedis) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, errScripted
}

func (s *scriptedRedis) AfterProcessPipeline(context.Context, []redis.Cmder) error {
	return nil
}

func newScriptedClient(script *scriptedRedis) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(script)
	return &Client{rdb: rdb}
}

func TestIdempotencyKeyNamespace(t *testing.T) {
	assert.Equal(t, "idempotency:abc-123", idempotencyKey("abc-123"))
}

func TestNewClientFailsWithoutServer(t *testing.T) {
	// nothing listens on port 1
	_, err := NewClient("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestBeginIdempotentClaimsFreeKey(t *testing.T) {
	script := &scriptedRedis{claims: []bool{true}}
	c := newScriptedClient(script)
	defer c.Close()

	stored, started, err := c.BeginIdempotent(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Nil(t, stored)
	assert.Equal(t, 0, script.gets)
}

func TestBeginIdempotentReclaimsKeyThatExpired(t *testing.T) {
	script := &scriptedRedis{claims: []bool{false, true}, reads: []string{""}}
	c := newScriptedClient(script)
	defer c.Close()

	stored, started, err := c.BeginIdempotent(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Nil(t, stored)
	assert.Equal(t, 2, script.setnx)
}

func TestBeginIdempotentReportsPendingAndStored(t *testing.T) {
	script := &scriptedRedis{claims: []bool{false, false}, reads: []string{pendingMarker, `{"sale":{}}`}}
	c := newScriptedClient(script)
	defer c.Close()
	ctx := context.Background()

	stored, started, err := c.BeginIdempotent(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Nil(t, stored)

	stored, started, err = c.BeginIdempotent(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, `{"sale":{}}`, string(stored))
}

func TestBeginIdempotentGivesUpOnChurningKey(t *testing.T) {
	script := &scriptedRedis{
		claims: []bool{false, false, false},
		reads:  []string{"", "", ""},
	}
	c := newScriptedClient(script)
	defer c.Close()

	_, started, err := c.BeginIdempotent(context.Background(), "k", time.Minute)
	assert.Error(t, err)
	assert.False(t, started)
	assert.Equal(t, claimAttempts, script.setnx)
}
