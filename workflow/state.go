package workflow

// State is the phase of one checkout transaction. Transitions are driven
// exclusively by the Checkout methods; there is no way back into editing
// once a terminal state is reached.
type State string

const (
	// StateItinerarySelected: itinerary and class chosen, roster empty.
	StateItinerarySelected State = "ITINERARY_SELECTED"
	// StateRosterEditing: passengers being added and removed.
	StateRosterEditing State = "ROSTER_EDITING"
	// StateConfirmRequested: confirm pressed, awaiting the mobile number.
	StateConfirmRequested State = "CONFIRM_REQUESTED"
	// StateVerificationPending: mobile number submitted, identity lookup
	// or booking creation in progress (or retryable after a failure).
	StateVerificationPending State = "VERIFICATION_PENDING"
	// StateConfirmed: booking persisted. Terminal.
	StateConfirmed State = "CONFIRMED"
	// StateAbandoned: checkout cancelled by the user. Terminal.
	StateAbandoned State = "ABANDONED"
)

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateConfirmed || s == StateAbandoned
}

func (s State) String() string {
	return string(s)
}
