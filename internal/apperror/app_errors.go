package apperror

import "errors"

var (
	ErrColumnFull          = errors.New("column is full")
	ErrInvalidColumn       = errors.New("invalid column index")
	ErrInvalidRow          = errors.New("invalid row index")
	ErrInvalidLocationCode = errors.New("invalid location code")

	ErrNotYourTurn = errors.New("it's not your turn")
	ErrNotGameOver = errors.New("game is not over")

	ErrUserMismatch        = errors.New("userId does not match this session")
	ErrGameMismatch        = errors.New("gameId does not match this session")
	ErrMalformedPayload    = errors.New("malformed message payload")
	ErrUnknownNotification = errors.New("unknown notification type")
	ErrUnexpectedMessage   = errors.New("message is not valid in the current state")
)
