package app

// State is a step of the generation pipeline.
type State int

const (
	StateInit State = iota
	StateTemplateLoaded
	StateParsed
	StateValidated
	StateAccumulated
	StateSubstituted
	StateEmitted
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateInit:           "init",
	StateTemplateLoaded: "template_loaded",
	StateParsed:         "parsed",
	StateValidated:      "validated",
	StateAccumulated:    "accumulated",
	StateSubstituted:    "substituted",
	StateEmitted:        "emitted",
	StateDone:           "done",
	StateFailed:         "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
