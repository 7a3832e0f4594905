package redis

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-client/testing/suite"
)

func TestClient_PublishSubscribe(t *testing.T) {
	ctx, s := suite.New(t)

	client := New(s.Logger, s.BrokerAddr)
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() {
		_ = client.Disconnect()
	})

	received := make(chan []byte, 1)
	require.NoError(t, client.Subscribe("/user/abc/queue/start", func(payload []byte) {
		received <- payload
	}))

	require.NoError(t, client.Publish("/user/abc/queue/start", []byte(`{"userId":"abc"}`)))

	select {
	case payload := <-received:
		assert.JSONEq(t, `{"userId":"abc"}`, string(payload))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestClient_Disconnect(t *testing.T) {
	ctx, s := suite.New(t)

	client := New(s.Logger, s.BrokerAddr)
	require.NoError(t, client.Connect(ctx))

	var failures atomic.Int32
	client.OnFailure(func(error) {
		failures.Add(1)
	})

	require.NoError(t, client.Subscribe("/user/abc/queue/alert", func([]byte) {}))

	// An explicit disconnect is not a failure, so the hook must stay silent.
	require.NoError(t, client.Disconnect())
	require.NoError(t, client.Disconnect())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), failures.Load())

	// The closed connection refuses further publishes.
	assert.Error(t, client.Publish("/user/abc/queue/alert", []byte("late")))
}

func TestClient_PublishBeforeConnect(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client := New(logger, "localhost:6379")

	err := client.Publish("/user/abc/queue/start", []byte("early"))
	require.ErrorIs(t, err, ErrNotConnected)

	err = client.Subscribe("/user/abc/queue/start", func([]byte) {})
	require.ErrorIs(t, err, ErrNotConnected)
}
