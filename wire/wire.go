package wire

const (
	// Terminal Control
	CRLF   = "\r\n"
	CR     = "\r"
	LF     = "\n"
	Prompt = "> "

	// Canonical messages
	MsgCmdOverflow = "Error : Command buffer overflow."
	MsgUnexpected  = "Error : Unexpected problem occured."
	MsgCmdNotFound = "Error : Command not found."
	MsgArgInvalid  = "Error : Argument invalid."

	// ErrorPrefix starts every canonical message.
	ErrorPrefix = "Error : "
)

// Messages lists the canonical messages in a fixed order.
var Messages = []string{MsgCmdOverflow, MsgUnexpected, MsgCmdNotFound, MsgArgInvalid}

// LongestMessage returns the byte length of the longest canonical message.
func LongestMessage() int {
	n := 0
	for _, m := range Messages {
		n = max(n, len(m))
	}
	return n
}

type OutputType int

const (
	TypeData   OutputType = iota // Echo or command output
	TypeError                    // One of the canonical messages
	TypePrompt                   // Interpreter ready for input
)

func (t OutputType) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeError:
		return "error"
	case TypePrompt:
		return "prompt"
	default:
		return "unknown"
	}
}
