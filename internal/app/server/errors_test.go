package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/freddys-cards/cardbattles/internal/cards"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status string
		code   int
	}{
		{fmt.Errorf("%w: m9", match.ErrMatchNotFound), ErrStatusMatchNotFound, http.StatusNotFound},
		{match.ErrNotYourTurn, ErrStatusWrongTurn, http.StatusForbidden},
		{match.ErrAttributeAlreadyChosen, ErrStatusAttributeChosen, http.StatusConflict},
		{match.ErrMatchFinished, ErrStatusMatchFinished, http.StatusConflict},
		{fmt.Errorf("failed to look up card x: %w", match.ErrUnknownCard), ErrStatusUnknownCard, http.StatusBadRequest},
		{match.ErrDuplicateAvatar, ErrStatusInvalidPlayers, http.StatusBadRequest},
		{cards.ErrNotEnoughCards, ErrStatusNotEnoughCards, http.StatusBadRequest},
		{errors.New("disk on fire"), ErrStatusInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, code := errorStatus(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestEveryMatchErrorHasStatus(t *testing.T) {
	for _, err := range []error{
		match.ErrInvalidPlayerCount, match.ErrDuplicateAvatar, match.ErrIncompleteProfile,
		match.ErrUnknownAvatar, match.ErrDuplicatePlayer, match.ErrDuplicateCard,
		match.ErrMatchNotFound, match.ErrMatchFinished, match.ErrMatchNotFinished,
		match.ErrUnknownPlayer, match.ErrNotYourTurn, match.ErrAttributeAlreadyChosen,
		match.ErrAttributeNotChosen, match.ErrUnknownAttribute, match.ErrAlreadyPlayed,
		match.ErrCardNotOwned, match.ErrCardAlreadyUsed, match.ErrUnknownCard, match.ErrInvalidPhase,
	} {
		status, _ := errorStatus(err)
		assert.NotEqual(t, ErrStatusInternal, status, err.Error())
	}
}
