package match

import "errors"

// Setup validation.
var (
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrDuplicateAvatar    = errors.New("duplicate avatar")
	ErrIncompleteProfile  = errors.New("incomplete player profile")
	ErrUnknownAvatar      = errors.New("unknown avatar")
	ErrDuplicatePlayer    = errors.New("duplicate player")
	ErrDuplicateCard      = errors.New("card dealt to more than one hand")
)

// Command rejections. State is never changed when one of these is returned.
var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchFinished          = errors.New("match finished")
	ErrMatchNotFinished       = errors.New("match not finished")
	ErrUnknownPlayer          = errors.New("player not in match")
	ErrNotYourTurn            = errors.New("not your turn")
	ErrAttributeAlreadyChosen = errors.New("attribute already chosen")
	ErrAttributeNotChosen     = errors.New("attribute not chosen yet")
	ErrUnknownAttribute       = errors.New("unknown attribute")
	ErrAlreadyPlayed          = errors.New("player already played this round")
	ErrCardNotOwned           = errors.New("card not in player's hand")
	ErrCardAlreadyUsed        = errors.New("card already used")
	ErrUnknownCard            = errors.New("card not found")
	ErrInvalidPhase           = errors.New("command not accepted in current phase")
)
