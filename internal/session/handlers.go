package session

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
)

// handleStartResponse records the game assignment. A response addressed to a
// different userID is a routing fault and must never be applied.
func (that *Session) handleStartResponse(ev event) error {
	log := that.logger.With("method", "handleStartResponse")

	if that.status != StatusConnected && that.status != StatusWaitingToStart {
		return fmt.Errorf("%w: start response in %s", apperror.ErrUnexpectedMessage, that.status)
	}

	var dto StartGameResponse
	if err := json.Unmarshal(ev.payload, &dto); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	if dto.UserID != that.userID {
		return fmt.Errorf("%w: start response for %q", apperror.ErrUserMismatch, dto.UserID)
	}

	that.gameID = dto.GameID
	that.color = dto.PlayerColor
	that.goesFirst = dto.GoesFirst

	switch {
	case dto.Waiting:
		that.setStatus(StatusWaitingToStart, textWaitingToStart)
	case dto.GoesFirst == that.color:
		that.boardEnabled = true
		that.setStatus(StatusYourTurn, textYourTurn)
	default:
		that.setStatus(StatusWaitingForOpponent, textWaitingForOpponent)
	}

	log.Info("game assigned", "gameID", dto.GameID, "color", dto.PlayerColor)

	return nil
}

// handleMoveResponse applies the opponent's move to the board and hands the
// turn back to this player.
func (that *Session) handleMoveResponse(ev event) error {
	log := that.logger.With("method", "handleMoveResponse")

	if that.status != StatusWaitingForOpponent {
		return fmt.Errorf("%w: move response in %s", apperror.ErrUnexpectedMessage, that.status)
	}

	var dto MoveResponse
	if err := json.Unmarshal(ev.payload, &dto); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	if dto.UserID != that.userID {
		return fmt.Errorf("%w: move response for %q", apperror.ErrUserMismatch, dto.UserID)
	}

	if dto.GameID != that.gameID {
		return fmt.Errorf("%w: move response for game %d", apperror.ErrGameMismatch, dto.GameID)
	}

	column, row, err := entity.DecodeLocation(dto.ChipLocation)
	if err != nil {
		return fmt.Errorf("failed to decode opponent move: %w", err)
	}

	opponent := entity.OpponentColor(that.color)

	placed, err := that.board.Drop(column, opponent)
	if err != nil {
		return fmt.Errorf("failed to apply opponent move %s: %w", dto.ChipLocation, err)
	}

	if placed != row {
		return fmt.Errorf("opponent move %s out of sync: chip landed on row %d", dto.ChipLocation, placed)
	}

	that.lastMove = &Move{Column: column, Row: placed, Color: opponent}
	that.boardEnabled = true
	that.setStatus(StatusYourTurn, textYourTurn)

	log.Info("opponent moved", "location", dto.ChipLocation)

	return nil
}

// handleNotification dispatches server-pushed alerts: opponent joined, turn
// handover and terminal game outcomes.
func (that *Session) handleNotification(ev event) error {
	log := that.logger.With("method", "handleNotification")

	var dto UserNotification
	if err := json.Unmarshal(ev.payload, &dto); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	if dto.UserID != that.userID {
		return fmt.Errorf("%w: notification for %q", apperror.ErrUserMismatch, dto.UserID)
	}

	if dto.GameID != that.gameID {
		return fmt.Errorf("%w: notification for game %d", apperror.ErrGameMismatch, dto.GameID)
	}

	switch dto.Type {
	case NotificationOpponentJoined:
		if that.status != StatusWaitingToStart {
			return fmt.Errorf("%w: opponent joined in %s", apperror.ErrUnexpectedMessage, that.status)
		}

		if that.goesFirst == that.color {
			that.boardEnabled = true
			that.setStatus(StatusYourTurn, textYourTurn)
		} else {
			that.setStatus(StatusWaitingForOpponent, textWaitingForOpponent)
		}

		log.Info("opponent joined", "gameID", dto.GameID)
	case NotificationYourMove:
		if that.status != StatusWaitingToStart && that.status != StatusWaitingForOpponent {
			return fmt.Errorf("%w: turn handover in %s", apperror.ErrUnexpectedMessage, that.status)
		}

		that.boardEnabled = true
		that.setStatus(StatusYourTurn, textYourTurn)
	case NotificationGameOver:
		if that.status != StatusWaitingForOpponent && that.status != StatusYourTurn {
			return fmt.Errorf("%w: game over in %s", apperror.ErrUnexpectedMessage, that.status)
		}

		that.boardEnabled = false
		that.setStatus(StatusGameOver, gameOverText(dto.Message))

		log.Info("game over", "gameID", dto.GameID, "message", dto.Message)
	case NotificationError:
		return fmt.Errorf("server reported an error: %s", dto.Message)
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownNotification, dto.Type)
	}

	return nil
}

// handleSubmitMove enacts a local move: place the chip, lock the board against
// a double submit, publish the request and hand the turn over.
func (that *Session) handleSubmitMove(ev event) error {
	log := that.logger.With("method", "handleSubmitMove")

	if that.status != StatusYourTurn {
		return fmt.Errorf("%w: submitted %s in %s", apperror.ErrNotYourTurn, ev.location, that.status)
	}

	column, row, err := entity.DecodeLocation(ev.location)
	if err != nil {
		return fmt.Errorf("failed to decode move: %w", err)
	}

	placed, err := that.board.Drop(column, that.color)
	if err != nil {
		return fmt.Errorf("failed to place chip: %w", err)
	}

	if placed != row {
		return fmt.Errorf("move %s out of sync: chip landed on row %d", ev.location, placed)
	}

	that.boardEnabled = false

	request := MoveRequest{
		UserID:       that.userID,
		GameID:       that.gameID,
		PlayerColor:  that.color,
		ChipLocation: ev.location,
	}

	if err = that.publish(DestMove, request); err != nil {
		return fmt.Errorf("failed to publish move: %w", err)
	}

	that.lastMove = &Move{Column: column, Row: placed, Color: that.color}
	that.setStatus(StatusWaitingForOpponent, textWaitingForOpponent)

	log.Info("move published", "location", ev.location)

	return nil
}

// handlePlayAgain starts a fresh game on the same connection and userID.
func (that *Session) handlePlayAgain(ev event) error {
	log := that.logger.With("method", "handlePlayAgain")

	if that.status != StatusGameOver {
		return fmt.Errorf("%w: play again in %s", apperror.ErrNotGameOver, that.status)
	}

	that.board.Reset()
	that.gameID = 0
	that.lastMove = nil
	that.boardEnabled = false

	if err := that.publish(DestStart, StartGameRequest{UserID: that.userID}); err != nil {
		return fmt.Errorf("failed to request new game: %w", err)
	}

	that.setStatus(StatusWaitingToStart, textWaitingToStart)

	log.Info("requested new game")

	return nil
}

func (that *Session) handleTransportFailure(ev event) error {
	return fmt.Errorf("transport failure: %w", ev.err)
}

func gameOverText(message string) string {
	switch message {
	case GameOverYouWon:
		return textGameOverWon
	case GameOverYouLost:
		return textGameOverLost
	case GameOverDraw:
		return textGameOverTie
	case GameOverOpponentQuit:
		return textGameOverQuit
	default:
		return textGameOver
	}
}
