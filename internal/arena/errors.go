package arena

import (
	"errors"
	"fmt"
)

var (
	ErrPlayerCount         = errors.New("actor count does not match player count")
	ErrPlayerOutOfRange    = errors.New("player index out of range")
	ErrTurnLimit           = errors.New("turn limit reached")
	ErrNoActors            = errors.New("no actors entered")
	ErrInvalidRepetitions  = errors.New("repetitions must be positive")
	ErrNotTwoPlayer        = errors.New("tournaments require a two-player game")
	ErrDuplicateActorName  = errors.New("duplicate actor name")
	ErrMatrixSize          = errors.New("stats matrix does not match actor list")
	ErrUnclassifiedOutcome = errors.New("outcome does not map to a two-player result")
)

// InvalidActionError is returned by Game.Apply when an action breaks the
// rules. It carries the view the action was decided from.
type InvalidActionError[P PlayerID, A, V any] struct {
	Player P
	Action A
	View   V
	Reason string
}

// NewInvalidAction builds an *InvalidActionError with a formatted reason.
func NewInvalidAction[P PlayerID, A, V any](player P, action A, view V, format string, args ...any) *InvalidActionError[P, A, V] {
	return &InvalidActionError[P, A, V]{
		Player: player,
		Action: action,
		View:   view,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *InvalidActionError[P, A, V]) Error() string {
	return fmt.Sprintf("invalid action %v by player %d: %s", e.Action, e.Player.Index(), e.Reason)
}

func (e *InvalidActionError[P, A, V]) invalidAction() {}

type rejection interface {
	error
	invalidAction()
}

// IsInvalidAction reports whether err wraps an *InvalidActionError of any
// game type.
func IsInvalidAction(err error) bool {
	var r rejection
	return errors.As(err, &r)
}

// ActorError reports an actor that could not produce a decision.
type ActorError struct {
	Actor string
	Err   error
}

func (e *ActorError) Error() string {
	return fmt.Sprintf("actor %q failed to decide: %v", e.Actor, e.Err)
}

func (e *ActorError) Unwrap() error {
	return e.Err
}

// IsActorFailure reports whether err wraps an *ActorError.
func IsActorFailure(err error) bool {
	var ae *ActorError
	return errors.As(err, &ae)
}

// MatchError aborts a match. Err is an *InvalidActionError or *ActorError.
type MatchError struct {
	Turn  int
	Slot  int
	Actor string
	Err   error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match aborted on turn %d (slot %d, %s): %v", e.Turn, e.Slot, e.Actor, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// TournamentError is the first failure of a tournament sweep. No partial
// statistics accompany it.
type TournamentError struct {
	Row        int
	Col        int
	First      string
	Second     string
	Repetition int
	Err        error
}

func (e *TournamentError) Error() string {
	return fmt.Sprintf("tournament aborted at %s vs %s (repetition %d): %v", e.First, e.Second, e.Repetition, e.Err)
}

func (e *TournamentError) Unwrap() error {
	return e.Err
}
