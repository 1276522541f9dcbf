package offiziersskat

import (
	"fmt"
	"math"
)

// DecodeAction converts a loosely typed value, as produced by a script or a
// JSON body, into an Action. Accepted shapes: {"trump": "clubs"},
// {"stack": 3}, a bare trump name or a bare stack number.
func DecodeAction(raw any) (Action, error) {
	switch v := raw.(type) {
	case Action:
		return v, nil
	case string:
		t, err := ParseTrump(v)
		if err != nil {
			return nil, err
		}
		return ChooseTrump{Trump: t}, nil
	case map[string]any:
		if t, ok := v["trump"]; ok {
			name, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("offiziersskat: trump must be a string, got %T", t)
			}
			return DecodeAction(name)
		}
		if s, ok := v["stack"]; ok {
			return DecodeAction(s)
		}
		return nil, fmt.Errorf("offiziersskat: action needs a trump or stack field")
	}

	n, ok := toInt(raw)
	if !ok {
		return nil, fmt.Errorf("offiziersskat: cannot decode action from %T", raw)
	}
	return PlayStack{Stack: n}, nil
}

func toInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
