package games

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrActorNotFound = errors.New("actor not found")
	ErrScript        = errors.New("script rejected")
	ErrNotScriptable = errors.New("game does not accept scripted actors")
)
