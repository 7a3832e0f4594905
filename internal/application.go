package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rocketscienceinc/connectfour-client/internal/config"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
	"github.com/rocketscienceinc/connectfour-client/internal/session"
	"github.com/rocketscienceinc/connectfour-client/internal/transport"
	redistransport "github.com/rocketscienceinc/connectfour-client/internal/transport/redis"
	stomptransport "github.com/rocketscienceinc/connectfour-client/internal/transport/stomp"
)

var (
	ErrUnknownTransport = errors.New("unknown transport")
	ErrSessionFailed    = errors.New("session failed, restart the client")
)

// RunApp - runs the client: connects the session and drives the terminal
// presentation loop until the game is quit or the session fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	broker, err := newTransport(logger, conf)
	if err != nil {
		return err
	}

	sess := session.New(logger, broker, conf.KeepAlivePeriod)

	if err = sess.Connect(ctx); err != nil {
		return fmt.Errorf("could not connect session: %w", err)
	}
	defer sess.Disconnect()

	lines := make(chan string)
	go readLines(lines)

	return runGameLoop(ctx, sess, lines)
}

func newTransport(logger *slog.Logger, conf *config.Config) (transport.Transport, error) {
	switch conf.Transport {
	case config.TransportStomp:
		return stomptransport.New(logger, conf.Stomp.GetStompAddr()), nil
	case config.TransportRedis:
		return redistransport.New(logger, conf.Redis.GetRedisAddr()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, conf.Transport)
	}
}

func readLines(lines chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines <- strings.TrimSpace(scanner.Text())
	}
	close(lines)
}

// runGameLoop multiplexes session updates and player input. The session owns
// all game state; this loop only renders snapshots and translates input lines
// into session commands.
func runGameLoop(ctx context.Context, sess *session.Session, lines <-chan string) error {
	var latest session.Update

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-sess.Updates():
			latest = update
			render(update)

			if update.Status == session.StatusError {
				return ErrSessionFailed
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			if quit := handleInput(sess, &latest, line); quit {
				return nil
			}
		}
	}
}

// handleInput translates one input line into a session command. The snapshot
// is locked as soon as a move is submitted so a repeated keypress is rejected
// here instead of reaching the session out of turn; the next update from the
// session replaces the snapshot either way.
func handleInput(sess *session.Session, latest *session.Update, line string) bool {
	input := strings.ToUpper(line)

	if input == "Q" || input == "QUIT" {
		return true
	}

	if latest.Status == session.StatusGameOver {
		switch input {
		case "Y":
			sess.PlayAgain()
			latest.Status = session.StatusWaitingToStart
		case "N":
			return true
		}

		return false
	}

	if latest.Status != session.StatusYourTurn || !latest.BoardEnabled {
		fmt.Println("It is not your turn")
		return false
	}

	column := strings.IndexAny("ABCDEF", input)
	if len(input) != 1 || column < 0 {
		fmt.Println("Pick a column letter between A and F")
		return false
	}

	if !latest.Board.ColumnOpen(column) {
		fmt.Println("That column is full")
		return false
	}

	code, err := entity.EncodeLocation(column, latest.Board.NextFree[column])
	if err != nil {
		fmt.Println("Pick a column letter between A and F")
		return false
	}

	sess.SubmitMove(code)
	latest.BoardEnabled = false

	return false
}

func render(update session.Update) {
	fmt.Println()
	fmt.Printf("Status: %s\n", update.StatusText)
	fmt.Println("    A B C D E F")

	for row := entity.BoardRows - 1; row >= 0; row-- {
		fmt.Print("  | ")
		for column := 0; column < entity.BoardColumns; column++ {
			fmt.Printf("%s ", cellMark(update.Board.CellAt(column, row)))
		}
		fmt.Println("|")
	}

	if update.BoardEnabled {
		fmt.Println("Drop a chip: type a column letter (A-F)")
	}

	if update.Status == session.StatusGameOver {
		fmt.Println("Play again? (y/n)")
	}
}

func cellMark(color string) string {
	switch color {
	case entity.ColorRed:
		return "R"
	case entity.ColorYellow:
		return "Y"
	default:
		return "."
	}
}
