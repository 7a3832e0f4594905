package stomp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/go-stomp/stomp/v3"

	"github.com/rocketscienceinc/connectfour-client/internal/transport"
)

var ErrNotConnected = errors.New("stomp client is not connected")

const contentTypeJSON = "application/json"

// Client speaks STOMP to the game server's broker over TCP. The protocol runs
// its own application-level heartbeat, so STOMP frame heartbeats are disabled.
type Client struct {
	logger *slog.Logger
	addr   string

	mu            sync.Mutex
	conn          *stomp.Conn
	subscriptions []*stomp.Subscription
	disconnected  bool

	failureOnce sync.Once
	onFailure   func(err error)
}

func New(logger *slog.Logger, addr string) *Client {
	return &Client{
		logger: logger.With("component", "stomp"),
		addr:   addr,
	}
}

func (that *Client) Connect(ctx context.Context) error {
	log := that.logger.With("method", "Connect")

	var dialer net.Dialer

	netConn, err := dialer.DialContext(ctx, "tcp", that.addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", that.addr, err)
	}

	conn, err := stomp.Connect(netConn, stomp.ConnOpt.HeartBeat(0, 0))
	if err != nil {
		netConn.Close()
		return fmt.Errorf("failed to connect to broker %s: %w", that.addr, err)
	}

	that.mu.Lock()
	that.conn = conn
	that.disconnected = false
	that.mu.Unlock()

	log.Info("connected to broker", "addr", that.addr)

	return nil
}

func (that *Client) Subscribe(destination string, handler transport.MessageHandler) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.conn == nil {
		return ErrNotConnected
	}

	subscription, err := that.conn.Subscribe(destination, stomp.AckAuto)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", destination, err)
	}

	that.subscriptions = append(that.subscriptions, subscription)

	go that.pump(subscription, handler)

	return nil
}

// pump drains one subscription's channel into its handler. The channel closes
// when the subscription or connection ends; a message carrying an error means
// the broker connection is gone.
func (that *Client) pump(subscription *stomp.Subscription, handler transport.MessageHandler) {
	for message := range subscription.C {
		if message.Err != nil {
			that.failure(message.Err)
			return
		}

		handler(message.Body)
	}

	that.mu.Lock()
	disconnected := that.disconnected
	that.mu.Unlock()

	if !disconnected {
		that.failure(fmt.Errorf("subscription %s closed by broker", subscription.Destination()))
	}
}

func (that *Client) Publish(destination string, payload []byte) error {
	that.mu.Lock()
	conn := that.conn
	that.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.Send(destination, contentTypeJSON, payload); err != nil {
		return fmt.Errorf("failed to send to %s: %w", destination, err)
	}

	return nil
}

func (that *Client) Disconnect() error {
	log := that.logger.With("method", "Disconnect")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.conn == nil || that.disconnected {
		return nil
	}

	that.disconnected = true

	for _, subscription := range that.subscriptions {
		if err := subscription.Unsubscribe(); err != nil {
			log.Warn("failed to unsubscribe", "destination", subscription.Destination(), "error", err)
		}
	}

	that.subscriptions = nil

	if err := that.conn.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from broker: %w", err)
	}

	log.Info("disconnected from broker")

	return nil
}

func (that *Client) OnFailure(hook func(err error)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onFailure = hook
}

func (that *Client) failure(err error) {
	that.failureOnce.Do(func() {
		that.logger.Error("broker connection failed", "error", err)

		that.mu.Lock()
		hook := that.onFailure
		that.mu.Unlock()

		if hook != nil {
			hook(err)
		}
	})
}
