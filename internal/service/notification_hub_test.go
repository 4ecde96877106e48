package service

import (
	"testing"
	"time"

	"course_platform_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func TestHubStopTerminatesRun(t *testing.T) {
	logger.Log = zap.NewNop()

	// nothing listens here; the hub only needs a client handle
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	hub := NewNotificationHub(rdb)

	ran := make(chan struct{})
	go func() {
		hub.Run()
		close(ran)
	}()

	client := &Client{
		Hub:     hub,
		Send:    make(chan []byte, 1),
		UserID:  7,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.IsUserConnected(7) },
		time.Second, 10*time.Millisecond)

	hub.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	_, open := <-client.Send
	assert.False(t, open)
	assert.False(t, hub.IsUserConnected(7))

	// a second Stop is harmless
	hub.Stop()
}
