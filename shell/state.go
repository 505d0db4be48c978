package shell

// State is the output phase the next Poll works on.
type State int

const (
	// StateBootstrap is the state of a new session. The first poll emits
	// the prompt and opens the session for input.
	StateBootstrap State = iota
	// StateEchoing echoes input as it arrives and, once a line is complete,
	// hands over to the newline that precedes the response.
	StateEchoing
	// StateNewlinePending emits the newline, then moves to the queued state.
	StateNewlinePending
	// StateResponsePending emits the command response or error message.
	StateResponsePending
	// StatePromptPending emits the prompt and ends the cycle.
	StatePromptPending
)

func (s State) String() string {
	switch s {
	case StateBootstrap:
		return "bootstrap"
	case StateEchoing:
		return "echoing"
	case StateNewlinePending:
		return "newline-pending"
	case StateResponsePending:
		return "response-pending"
	case StatePromptPending:
		return "prompt-pending"
	default:
		return "unknown"
	}
}
