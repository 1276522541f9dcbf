package offiziersskat

import "encoding/json"

// Player is a seat. One chooses trump and leads the first trick.
type Player uint8

const (
	One Player = iota
	Two
)

func (p Player) Index() int { return int(p) }

func (p Player) Other() Player { return 1 - p }

func (p Player) String() string {
	if p == One {
		return "one"
	}
	return "two"
}

func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Phase is the stage of a game.
type Phase uint8

const (
	PhaseSelectTrump Phase = iota
	PhasePlay
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectTrump:
		return "select_trump"
	case PhasePlay:
		return "play"
	default:
		return "over"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// View is either a SelectTrumpView or a PlayView.
type View interface {
	Phase() Phase
	isView()
}

// SelectTrumpView shows the chooser the face-up cards of their first four
// stacks. The other player sees no cards.
type SelectTrumpView struct {
	Cards []Card `json:"cards"`
}

func (SelectTrumpView) Phase() Phase { return PhaseSelectTrump }
func (SelectTrumpView) isView() {}

func (v SelectTrumpView) MarshalJSON() ([]byte, error) {
	type plain SelectTrumpView
	return json.Marshal(struct {
		Phase Phase `json:"phase"`
		plain
	}{v.Phase(), plain(v)})
}

// StackView is one stack as seen by either player. Top is nil once the
// stack is empty.
type StackView struct {
	Top      *Card `json:"top"`
	FaceDown bool  `json:"face_down"`
}

// PlayView is a player's view during trick play.
type PlayView struct {
	Player        Player       `json:"player"`
	Trump         Trump        `json:"trump"`
	Trick         int          `json:"trick"`
	Own           [8]StackView `json:"own"`
	Opponent      [8]StackView `json:"opponent"`
	Lead          *Card        `json:"lead"`
	Score         int          `json:"score"`
	OpponentScore int          `json:"opponent_score"`
}

func (PlayView) Phase() Phase { return PhasePlay }
func (PlayView) isView() {}

func (v PlayView) MarshalJSON() ([]byte, error) {
	type plain PlayView
	return json.Marshal(struct {
		Phase Phase `json:"phase"`
		plain
	}{v.Phase(), plain(v)})
}

// LegalStacks lists the stacks the viewing player may play from.
func (v PlayView) LegalStacks() []int {
	var tops [8]*Card
	for i, s := range v.Own {
		tops[i] = s.Top
	}
	return legalStacks(tops, v.Lead, v.Trump)
}

func legalStacks(tops [8]*Card, lead *Card, trump Trump) []int {
	var all, following []int
	for i, top := range tops {
		if top == nil {
			continue
		}
		all = append(all, i)
		if lead != nil && trump.follows(*top, *lead) {
			following = append(following, i)
		}
	}
	if len(following) > 0 {
		return following
	}
	return all
}

// Action is either a ChooseTrump or a PlayStack.
type Action interface {
	isAction()
}

// ChooseTrump fixes the contract. Only legal in the trump phase.
type ChooseTrump struct {
	Trump Trump `json:"trump"`
}

func (ChooseTrump) isAction() {}

// PlayStack plays the top card of one of the player's stacks.
type PlayStack struct {
	Stack int `json:"stack"`
}

func (PlayStack) isAction() {}
