package sim

// Action is a semantic control decoded from user input.
type Action uint8

const (
	ActionNone Action = iota
	// ActionPause halts the simulation until the next key.
	ActionPause
	// ActionQuit terminates the run.
	ActionQuit
	// ActionReset reseeds the tracers and rewinds the frame source.
	ActionReset
	// ActionStepUp multiplies the step size by StepFactor.
	ActionStepUp
	// ActionStepDown divides the step size by StepFactor.
	ActionStepDown
	// ActionPrecisionUp adds PrecisionDelta substeps.
	ActionPrecisionUp
	// ActionPrecisionDown removes PrecisionDelta substeps, never going below 1.
	ActionPrecisionDown
)

const (
	// StepFactor is the multiplicative step size adjustment.
	StepFactor = 1.1
	// PrecisionDelta is the additive substep count adjustment.
	PrecisionDelta = 5
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionPause:         "pause",
	ActionQuit:          "quit",
	ActionReset:         "reset",
	ActionStepUp:        "step+",
	ActionStepDown:      "step-",
	ActionPrecisionUp:   "precision+",
	ActionPrecisionDown: "precision-",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Action(?)"
}

// KeyAction maps a key to its action:
//
//	space  pause until next key
//	q      quit
//	r      reset tracers and frames
//	w / s  step size ×1.1 / ÷1.1
//	d / a  precision +5 / -5
func KeyAction(key rune) Action {
	switch key {
	case ' ':
		return ActionPause
	case 'q', 'Q':
		return ActionQuit
	case 'r', 'R':
		return ActionReset
	case 'w', 'W':
		return ActionStepUp
	case 's', 'S':
		return ActionStepDown
	case 'd', 'D':
		return ActionPrecisionUp
	case 'a', 'A':
		return ActionPrecisionDown
	}
	return ActionNone
}

// Apply performs a on the state and reports whether the run should end.
// Pause only sets Paused; resuming is handled by Tick.
func (s *State) Apply(a Action) (quit bool) {
	switch a {
	case ActionPause:
		s.Paused = true
	case ActionQuit:
		return true
	case ActionReset:
		s.Reset()
	case ActionStepUp:
		s.StepSize *= StepFactor
	case ActionStepDown:
		s.StepSize /= StepFactor
	case ActionPrecisionUp:
		s.Precision += PrecisionDelta
	case ActionPrecisionDown:
		s.Precision -= PrecisionDelta
		if s.Precision < 1 {
			s.Precision = 1
		}
	}
	return false
}
