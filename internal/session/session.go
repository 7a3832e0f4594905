package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
	"github.com/rocketscienceinc/connectfour-client/internal/transport"
)

const eventQueueBuffer = 64

// event kinds dispatched on the session's single event queue.
const (
	eventStartResponse    = "start"
	eventMoveResponse     = "move"
	eventNotification     = "alert"
	eventSubmitMove       = "move:submit"
	eventPlayAgain        = "game:again"
	eventTransportFailure = "transport:failure"
)

type event struct {
	kind     string
	payload  []byte
	location string
	err      error
}

// Session owns one player's connection to the game server: it negotiates game
// start, tracks whose turn it is, applies moves to the local board and keeps
// the connection alive. All state is mutated on a single event loop; transport
// callbacks and local commands only post events onto that loop.
type Session struct {
	logger    *slog.Logger
	transport transport.Transport

	userID    string
	gameID    int
	color     string
	goesFirst string

	status       Status
	statusText   string
	board        *entity.Board
	boardEnabled bool
	lastMove     *Move

	keepAlive *keepAlive

	events    chan event
	updates   chan Update
	done      chan struct{}
	closeOnce sync.Once

	handlers map[string]func(ev event) error
}

// New creates a session with a fresh userID. The userID is stable for the
// session's lifetime and is reused across "play again" cycles.
func New(logger *slog.Logger, tr transport.Transport, keepAlivePeriod time.Duration) *Session {
	that := &Session{
		logger:    logger.With("component", "session"),
		transport: tr,

		userID: uuid.NewString(),

		status:     StatusConnecting,
		statusText: textConnecting,
		board:      entity.NewBoard(),

		events:  make(chan event, eventQueueBuffer),
		updates: make(chan Update, eventQueueBuffer),
		done:    make(chan struct{}),
	}

	that.keepAlive = newKeepAlive(logger, tr, that.userID, keepAlivePeriod)

	that.handlers = map[string]func(ev event) error{
		eventStartResponse:    that.handleStartResponse,
		eventMoveResponse:     that.handleMoveResponse,
		eventNotification:     that.handleNotification,
		eventSubmitMove:       that.handleSubmitMove,
		eventPlayAgain:        that.handlePlayAgain,
		eventTransportFailure: that.handleTransportFailure,
	}

	return that
}

func (that *Session) UserID() string {
	return that.userID
}

// Updates returns the channel presentation layers subscribe to. A snapshot is
// pushed after every state change.
func (that *Session) Updates() <-chan Update {
	return that.updates
}

// Connect opens the transport, registers the three per-user inbound queues and
// publishes the start request. It is safe to call again after a connect
// failure; the same userID is reused.
func (that *Session) Connect(ctx context.Context) error {
	log := that.logger.With("method", "Connect")

	that.setStatus(StatusConnecting, textConnecting)

	that.transport.OnFailure(func(err error) {
		that.post(event{kind: eventTransportFailure, err: err})
	})

	if err := that.transport.Connect(ctx); err != nil {
		that.setStatus(StatusError, textError)
		return fmt.Errorf("failed to connect transport: %w", err)
	}

	that.setStatus(StatusConnected, textConnected)

	subscriptions := []struct {
		queue string
		kind  string
	}{
		{userQueuePrefix + that.userID + queueStart, eventStartResponse},
		{userQueuePrefix + that.userID + queueMove, eventMoveResponse},
		{userQueuePrefix + that.userID + queueAlert, eventNotification},
	}

	for _, subscription := range subscriptions {
		kind := subscription.kind
		err := that.transport.Subscribe(subscription.queue, func(payload []byte) {
			that.post(event{kind: kind, payload: payload})
		})
		if err != nil {
			that.setStatus(StatusError, textError)
			that.teardown()

			return fmt.Errorf("failed to subscribe to %s: %w", subscription.queue, err)
		}
	}

	go that.run(ctx)

	that.keepAlive.Start()

	if err := that.publish(DestStart, StartGameRequest{UserID: that.userID}); err != nil {
		that.post(event{kind: eventTransportFailure, err: err})
		return fmt.Errorf("failed to request game start: %w", err)
	}

	log.Info("connected", "userID", that.userID)

	return nil
}

// SubmitMove posts a local move for the given location code. Only valid while
// it is this player's turn; anything else indicates the caller is out of sync
// with the session and tears it down.
func (that *Session) SubmitMove(locationCode string) {
	that.post(event{kind: eventSubmitMove, location: locationCode})
}

// PlayAgain resets the board and requests a new game. Only valid from game over.
func (that *Session) PlayAgain() {
	that.post(event{kind: eventPlayAgain})
}

// Disconnect stops the keepalive and closes the transport. Safe to call from
// any state, any number of times; events arriving afterwards are ignored.
func (that *Session) Disconnect() {
	that.teardown()
}

// run is the session's event loop. It exits on the first fatal error, on
// context cancellation or on Disconnect.
func (that *Session) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			that.teardown()
			return
		case <-that.done:
			return
		case ev := <-that.events:
			handler, ok := that.handlers[ev.kind]
			if !ok {
				that.fail(fmt.Errorf("%w: %s", apperror.ErrUnexpectedMessage, ev.kind))
				return
			}

			if err := handler(ev); err != nil {
				that.fail(err)
				return
			}
		}
	}
}

// fail marks the session broken and tears the connection down. The server is
// the single source of truth; a validation failure means this session is
// desynchronized beyond safe local repair, so nothing is retried.
func (that *Session) fail(err error) {
	that.logger.Error("session failed", "error", err)

	that.teardown()

	that.boardEnabled = false
	that.setStatus(StatusError, textError)
}

func (that *Session) teardown() {
	that.closeOnce.Do(func() {
		that.keepAlive.Stop()

		if err := that.transport.Disconnect(); err != nil {
			that.logger.Warn("failed to disconnect transport", "error", err)
		}

		close(that.done)
	})
}

// post delivers an event to the loop unless the session is already closed.
func (that *Session) post(ev event) {
	select {
	case <-that.done:
	case that.events <- ev:
	}
}

func (that *Session) publish(destination string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err = that.transport.Publish(destination, body); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", destination, err)
	}

	return nil
}

func (that *Session) setStatus(status Status, text string) {
	that.status = status
	that.statusText = text
	that.emit()
}

// emit pushes a snapshot to the updates channel. A slow observer drops
// snapshots rather than stalling the event loop.
func (that *Session) emit() {
	update := Update{
		Status:       that.status,
		StatusText:   that.statusText,
		GameID:       that.gameID,
		PlayerColor:  that.color,
		Board:        *that.board,
		BoardEnabled: that.boardEnabled,
	}

	if that.lastMove != nil {
		move := *that.lastMove
		update.LastMove = &move
	}

	select {
	case that.updates <- update:
	default:
		that.logger.Warn("dropped update, observer is not keeping up")
	}
}
