package games

import (
	"fmt"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
	"github.com/MJE43/game-arena/internal/games/offiziersskat"
	"github.com/MJE43/game-arena/internal/games/rps"
	"github.com/MJE43/game-arena/internal/scripting"
)

// RPS is the rock-paper-scissors catalog entry.
var RPS = &Entry[rps.Player, rps.Choice, rps.View, arena.TwoPlayerOutcome]{
	Info: Spec{
		ID:          "rps",
		Name:        "Rock Paper Scissors",
		Description: "Both players pick once; decide(view) returns \"rock\", \"paper\" or \"scissors\".",
	},
	NewFactory: func(engine.Seeds) arena.IndexedFactory[rps.Player, rps.Choice, rps.View, arena.TwoPlayerOutcome] {
		return arena.Indexed(rps.Factory)
	},
	Roster: rps.Roster,
	Codec: scripting.Codec[rps.View, rps.Choice]{
		EncodeView: scripting.JSONView[rps.View],
		DecodeAction: func(raw any) (rps.Choice, error) {
			s, ok := raw.(string)
			if !ok {
				return 0, fmt.Errorf("rps: decide must return a string, got %T", raw)
			}
			return rps.ParseChoice(s)
		},
	},
	Detail: func(g arena.Game[rps.Player, rps.Choice, rps.View, arena.TwoPlayerOutcome]) any {
		one, two := g.(*rps.Game).Choices()
		return map[string]rps.Choice{"one": one, "two": two}
	},
}

// Offiziersskat is the two-player skat catalog entry.
var Offiziersskat = &Entry[offiziersskat.Player, offiziersskat.Action, offiziersskat.View, arena.TwoPlayerOutcome]{
	Info: Spec{
		ID:          "offiziersskat",
		Name:        "Offiziersskat",
		Description: "Two-player skat from open stacks; decide(view) returns {trump} or {stack}.",
	},
	NewFactory: offiziersskat.SeededFactory,
	Roster:     offiziersskat.Roster,
	Codec: scripting.Codec[offiziersskat.View, offiziersskat.Action]{
		EncodeView:   scripting.JSONView[offiziersskat.View],
		DecodeAction: offiziersskat.DecodeAction,
	},
	Detail: func(g arena.Game[offiziersskat.Player, offiziersskat.Action, offiziersskat.View, arena.TwoPlayerOutcome]) any {
		return g.(*offiziersskat.Game).Summary()
	},
}

func init() {
	Register(RPS)
	Register(Offiziersskat)
}
