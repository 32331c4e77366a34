package panel

import "fmt"

// Action identifies a structural change to the item collection.
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionReplace
	ActionMove
	ActionReset
)

var actionNames = map[Action]string{
	ActionAdd:     "add",
	ActionRemove:  "remove",
	ActionReplace: "replace",
	ActionMove:    "move",
	ActionReset:   "reset",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction maps a lowercase action name to its Action.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}
