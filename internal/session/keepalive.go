package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-client/internal/transport"
)

// DefaultKeepAlivePeriod sits well below the ~30s idle-disconnect threshold of
// typical hosting platforms.
const DefaultKeepAlivePeriod = 20 * time.Second

// keepAlive publishes a periodic heartbeat carrying only the userID. No
// response is expected. Its lifetime is scoped to one connection: the session
// starts it on connect and stops it on error or disconnect, so a second
// connection can never inherit a running ticker.
type keepAlive struct {
	logger    *slog.Logger
	transport transport.Transport

	userID string
	period time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func newKeepAlive(logger *slog.Logger, tr transport.Transport, userID string, period time.Duration) *keepAlive {
	if period <= 0 {
		period = DefaultKeepAlivePeriod
	}

	return &keepAlive{
		logger:    logger.With("component", "keepalive"),
		transport: tr,
		userID:    userID,
		period:    period,
		stop:      make(chan struct{}),
	}
}

func (that *keepAlive) Start() {
	go that.run()
}

func (that *keepAlive) run() {
	body, err := json.Marshal(KeepAliveRequest{UserID: that.userID})
	if err != nil {
		that.logger.Error("failed to marshal heartbeat", "error", err)
		return
	}

	ticker := time.NewTicker(that.period)
	defer ticker.Stop()

	for {
		select {
		case <-that.stop:
			return
		case <-ticker.C:
			if err = that.transport.Publish(DestKeepAlive, body); err != nil {
				that.logger.Warn("failed to publish heartbeat", "error", err)
			}
		}
	}
}

// Stop is safe to call more than once and from any goroutine.
func (that *keepAlive) Stop() {
	that.stopOnce.Do(func() {
		close(that.stop)
	})
}
