// README: Booking workflow steps and transition table.
package booking

// Step is one stage of the linear booking workflow.
type Step string

const (
	StepSearching      Step = "searching"
	StepSelectingSeats Step = "selectingSeats"
	StepAuthenticating Step = "authenticating"
	StepPaying         Step = "payingOrConfirming"
	StepConfirmed      Step = "confirmed"
	// StepInfo is the informational side branch reachable from searching.
	StepInfo Step = "info"
)

// AllowedTransitions represents the workflow as code. Forward moves go one
// step at a time (authenticating may be skipped when an identity is already
// resolved); backward moves drop only the newest step's selections; the
// terminal confirmed step exits only through an explicit reset.
var AllowedTransitions = map[Step][]Step{
	StepSearching:      {StepSelectingSeats, StepInfo},
	StepInfo:           {StepSearching},
	StepSelectingSeats: {StepAuthenticating, StepPaying, StepSearching},
	StepAuthenticating: {StepPaying, StepSelectingSeats},
	StepPaying:         {StepConfirmed, StepSelectingSeats},
	StepConfirmed:      {StepSearching},
}

func CanTransition(from, to Step) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
