package server

import (
	"errors"
	"net/http"

	"github.com/freddys-cards/cardbattles/internal/cards"
	"github.com/freddys-cards/cardbattles/internal/match"
)

var (
	ErrStatusInvalidRequest     string = "INVALID_REQUEST"
	ErrStatusInvalidPlayers     string = "INVALID_PLAYERS"
	ErrStatusNotEnoughCards     string = "NOT_ENOUGH_CARDS"
	ErrStatusMatchNotFound      string = "MATCH_NOT_FOUND"
	ErrStatusMatchFinished      string = "MATCH_FINISHED"
	ErrStatusMatchNotFinished   string = "MATCH_NOT_FINISHED"
	ErrStatusInvalidPlayerId    string = "INVALID_PLAYER_ID"
	ErrStatusWrongTurn          string = "NOT_YOUR_TURN"
	ErrStatusAttributeChosen    string = "ATTRIBUTE_ALREADY_CHOSEN"
	ErrStatusAttributeNotChosen string = "ATTRIBUTE_NOT_CHOSEN"
	ErrStatusUnknownAttribute   string = "UNKNOWN_ATTRIBUTE"
	ErrStatusAlreadyPlayed      string = "ALREADY_PLAYED"
	ErrStatusCardNotOwned       string = "CARD_NOT_OWNED"
	ErrStatusCardAlreadyUsed    string = "CARD_ALREADY_USED"
	ErrStatusUnknownCard        string = "UNKNOWN_CARD"
	ErrStatusInvalidPhase       string = "INVALID_PHASE"
	ErrStatusInternal           string = "INTERNAL_ERROR"
)

var errorStatuses = []struct {
	err    error
	status string
	code   int
}{
	{match.ErrMatchNotFound, ErrStatusMatchNotFound, http.StatusNotFound},
	{match.ErrUnknownPlayer, ErrStatusInvalidPlayerId, http.StatusNotFound},
	{match.ErrNotYourTurn, ErrStatusWrongTurn, http.StatusForbidden},
	{match.ErrMatchFinished, ErrStatusMatchFinished, http.StatusConflict},
	{match.ErrMatchNotFinished, ErrStatusMatchNotFinished, http.StatusConflict},
	{match.ErrAttributeAlreadyChosen, ErrStatusAttributeChosen, http.StatusConflict},
	{match.ErrAttributeNotChosen, ErrStatusAttributeNotChosen, http.StatusConflict},
	{match.ErrAlreadyPlayed, ErrStatusAlreadyPlayed, http.StatusConflict},
	{match.ErrCardAlreadyUsed, ErrStatusCardAlreadyUsed, http.StatusConflict},
	{match.ErrInvalidPhase, ErrStatusInvalidPhase, http.StatusConflict},
	{match.ErrCardNotOwned, ErrStatusCardNotOwned, http.StatusBadRequest},
	{match.ErrUnknownCard, ErrStatusUnknownCard, http.StatusBadRequest},
	{match.ErrUnknownAttribute, ErrStatusUnknownAttribute, http.StatusBadRequest},
	{match.ErrInvalidPlayerCount, ErrStatusInvalidPlayers, http.StatusBadRequest},
	{match.ErrDuplicateAvatar, ErrStatusInvalidPlayers, http.StatusBadRequest},
	{match.ErrIncompleteProfile, ErrStatusInvalidPlayers, http.StatusBadRequest},
	{match.ErrUnknownAvatar, ErrStatusInvalidPlayers, http.StatusBadRequest},
	{match.ErrDuplicatePlayer, ErrStatusInvalidPlayers, http.StatusBadRequest},
	{match.ErrDuplicateCard, ErrStatusInvalidPlayers, http.StatusBadRequest},
	{cards.ErrNotEnoughCards, ErrStatusNotEnoughCards, http.StatusBadRequest},
}

// errorStatus maps an error returned by the machine to a client facing
// status string and HTTP code.
func errorStatus(err error) (string, int) {
	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.status, s.code
		}
	}
	return ErrStatusInternal, http.StatusInternalServerError
}
