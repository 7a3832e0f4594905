package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-client/internal/entity"
	"github.com/rocketscienceinc/connectfour-client/internal/session"
	"github.com/rocketscienceinc/connectfour-client/internal/transport"
)

// fakeBroker is an in-memory transport double for exercising the input loop
// against a live session.
type fakeBroker struct {
	mu        sync.Mutex
	handlers  map[string]transport.MessageHandler
	published map[string][][]byte
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		handlers:  make(map[string]transport.MessageHandler),
		published: make(map[string][][]byte),
	}
}

func (that *fakeBroker) Connect(_ context.Context) error {
	return nil
}

func (that *fakeBroker) Subscribe(destination string, handler transport.MessageHandler) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.handlers[destination] = handler

	return nil
}

func (that *fakeBroker) Publish(destination string, payload []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	body := make([]byte, len(payload))
	copy(body, payload)
	that.published[destination] = append(that.published[destination], body)

	return nil
}

func (that *fakeBroker) Disconnect() error {
	return nil
}

func (that *fakeBroker) OnFailure(_ func(err error)) {}

func (that *fakeBroker) deliver(t *testing.T, destination string, message any) {
	t.Helper()

	body, err := json.Marshal(message)
	require.NoError(t, err)

	that.mu.Lock()
	handler, ok := that.handlers[destination]
	that.mu.Unlock()

	require.True(t, ok, "no subscription for %s", destination)

	handler(body)
}

func (that *fakeBroker) sent(destination string) [][]byte {
	that.mu.Lock()
	defer that.mu.Unlock()

	messages := make([][]byte, len(that.published[destination]))
	copy(messages, that.published[destination])

	return messages
}

func waitForStatus(t *testing.T, sess *session.Session, status session.Status) session.Update {
	t.Helper()

	deadline := time.After(2 * time.Second)

	for {
		select {
		case update := <-sess.Updates():
			if update.Status == status {
				return update
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %s", status)
			return session.Update{}
		}
	}
}

func TestHandleInput(t *testing.T) {
	t.Run("Repeated keypress before the next snapshot is rejected locally", func(t *testing.T) {
		// Given: a running game where this player has the turn
		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		broker := newFakeBroker()
		sess := session.New(logger, broker, time.Hour)
		defer sess.Disconnect()

		require.NoError(t, sess.Connect(context.Background()))
		broker.deliver(t, "/user/"+sess.UserID()+"/queue/start", session.StartGameResponse{
			UserID:      sess.UserID(),
			GameID:      7,
			PlayerColor: entity.ColorRed,
			GoesFirst:   entity.ColorRed,
		})

		latest := waitForStatus(t, sess, session.StatusYourTurn)

		// When: two column keypresses arrive against the same stale snapshot
		require.False(t, handleInput(sess, &latest, "A"))
		require.False(t, handleInput(sess, &latest, "A"))

		// Then: the snapshot is locked by the first press and only one move
		// reaches the wire
		assert.False(t, latest.BoardEnabled)
		require.Eventually(t, func() bool {
			return len(broker.sent(session.DestMove)) == 1
		}, 2*time.Second, 10*time.Millisecond)

		// And: the session flips to waiting for the opponent without failing
		waitForStatus(t, sess, session.StatusWaitingForOpponent)

		select {
		case update := <-sess.Updates():
			t.Fatalf("unexpected update after submit: %v", update.Status)
		case <-time.After(100 * time.Millisecond):
		}

		assert.Len(t, broker.sent(session.DestMove), 1)
	})

	t.Run("Repeated play-again keypress requests only one game", func(t *testing.T) {
		// Given: a finished game
		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		broker := newFakeBroker()
		sess := session.New(logger, broker, time.Hour)
		defer sess.Disconnect()

		require.NoError(t, sess.Connect(context.Background()))
		broker.deliver(t, "/user/"+sess.UserID()+"/queue/start", session.StartGameResponse{
			UserID:      sess.UserID(),
			GameID:      7,
			PlayerColor: entity.ColorRed,
			GoesFirst:   entity.ColorRed,
		})
		waitForStatus(t, sess, session.StatusYourTurn)

		broker.deliver(t, "/user/"+sess.UserID()+"/queue/alert", session.UserNotification{
			UserID:     sess.UserID(),
			GameID:     7,
			Type:       session.NotificationGameOver,
			Message:    session.GameOverYouLost,
			IsTerminal: true,
		})
		latest := waitForStatus(t, sess, session.StatusGameOver)

		// When: "y" is pressed twice against the same stale snapshot
		require.False(t, handleInput(sess, &latest, "y"))
		require.False(t, handleInput(sess, &latest, "y"))

		// Then: exactly one new start request goes out and the session waits
		// for the new game instead of failing
		waitForStatus(t, sess, session.StatusWaitingToStart)

		select {
		case update := <-sess.Updates():
			t.Fatalf("unexpected update after play again: %v", update.Status)
		case <-time.After(100 * time.Millisecond):
		}

		// the first start request was sent on connect
		assert.Len(t, broker.sent(session.DestStart), 2)
	})
}
