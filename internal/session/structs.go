package session

import (
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

// Status is the session's place in the turn/connection state machine.
type Status string

const (
	StatusConnecting         Status = "connecting"
	StatusConnected          Status = "connected"
	StatusWaitingToStart     Status = "waiting_to_start"
	StatusWaitingForOpponent Status = "waiting_for_opponent"
	StatusYourTurn           Status = "your_turn"
	StatusGameOver           Status = "game_over"
	StatusError              Status = "error"
)

// Status line texts shown to the player.
const (
	textConnecting         = "Connecting..."
	textConnected          = "Connected"
	textWaitingToStart     = "Waiting for opponent to join"
	textWaitingForOpponent = "Waiting for opponent to move"
	textYourTurn           = "Your Turn"
	textGameOver           = "Game over"
	textGameOverWon        = "Game over - you won!"
	textGameOverLost       = "Game over - you lost"
	textGameOverQuit       = "Game over - opponent quit"
	textGameOverTie        = "Game over - it's a tie"
	textError              = "Something went wrong"
)

// Notification types pushed by the server on the alert queue.
const (
	NotificationOpponentJoined = "OPPONENT_JOINED"
	NotificationYourMove       = "YOUR_MOVE"
	NotificationGameOver       = "GAME_OVER"
	NotificationError          = "ERROR"
)

// Game-over notification messages.
const (
	GameOverYouWon       = "YOU_WON"
	GameOverYouLost      = "YOU_LOST"
	GameOverDraw         = "DRAW"
	GameOverOpponentQuit = "OPPONENT_QUIT"
)

// Server destinations and the per-user inbound queues.
const (
	DestStart     = "/connectfour/start"
	DestMove      = "/connectfour/move"
	DestKeepAlive = "/connectfour/keepAlive"

	userQueuePrefix = "/user/"
	queueStart      = "/queue/start"
	queueMove       = "/queue/move"
	queueAlert      = "/queue/alert"
)

// These must match the server DTOs field for field.

type StartGameRequest struct {
	UserID string `json:"userId"`
}

type StartGameResponse struct {
	UserID      string `json:"userId"`
	GameID      int    `json:"gameId"`
	PlayerColor string `json:"playerColor"`
	GoesFirst   string `json:"goesFirst"`
	Waiting     bool   `json:"waiting"`
}

type MoveRequest struct {
	UserID       string `json:"userId"`
	GameID       int    `json:"gameId"`
	PlayerColor  string `json:"playerColor"`
	ChipLocation string `json:"chipLocation"`
}

type MoveResponse struct {
	UserID       string `json:"userId"`
	GameID       int    `json:"gameId"`
	ChipLocation string `json:"chipLocation"`
}

type UserNotification struct {
	UserID     string `json:"userId"`
	GameID     int    `json:"gameId"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	IsTerminal bool   `json:"isTerminal"`
}

type KeepAliveRequest struct {
	UserID string `json:"userId"`
}

// Move is one applied chip placement, 0-based coordinates.
type Move struct {
	Column int
	Row    int
	Color  string
}

// Update is a snapshot pushed to the presentation layer after every state
// change. The board is copied by value so readers never share session state.
type Update struct {
	Status       Status
	StatusText   string
	GameID       int
	PlayerColor  string
	Board        entity.Board
	BoardEnabled bool
	LastMove     *Move
}
