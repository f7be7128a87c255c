package domain

// State is a stage of the per-package build pipeline.
type State int

const (
	StateCreated State = iota
	StateFetching
	StatePatching
	StatePreparing
	StateBuilding
	StateFinalizing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateCreated:    "created",
	StateFetching:   "fetching",
	StatePatching:   "patching",
	StatePreparing:  "preparing",
	StateBuilding:   "building",
	StateFinalizing: "finalizing",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
