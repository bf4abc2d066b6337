package types

// Kind tags the closed set of message variants the bus carries. There is
// deliberately no open hierarchy here: the protocol has exactly four kinds
// and every consumer switches on Kind instead of doing a type assertion.
type Kind uint8

const (
	// Plain is never published on the bus by the façade directly; it only
	// exists so a zero-value Message is recognizably "no kind yet" rather
	// than silently aliasing Broadcast.
	Plain Kind = iota
	Broadcast
	Directed
	Token
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "PLAIN"
	case Broadcast:
		return "BROADCAST"
	case Directed:
		return "DIRECTED"
	case Token:
		return "TOKEN"
	default:
		return "UNKNOWN"
	}
}

// Message is the immutable value every bus event and mailbox entry is built
// from. Never mutate a Message after construction; the accessors below are
// read-only by convention, not by the type system.
type Message struct {
	// Timestamp is the Lamport clock value stamped on the message when it
	// was published.
	Timestamp int

	// Payload carries the application-level content. Opaque to the
	// middleware.
	Payload string

	Kind Kind

	// From identifies the publishing process. Always set; BroadcastSync
	// matches Broadcast messages on it, and for Token it names the process
	// handing the token on.
	From ProcessId

	// To identifies the single recipient for Directed and Token messages.
	// Zero value for Broadcast.
	To ProcessId

	// SenderID tags every Directed message with its publisher's id so that
	// RecvFromSync can match structurally instead of scanning payloads for
	// a substring.
	SenderID ProcessId
}

// NewBroadcast builds a Broadcast-kind message. The caller stamps Timestamp.
func NewBroadcast(from ProcessId, payload string) Message {
	return Message{Kind: Broadcast, From: from, Payload: payload}
}

// NewDirected builds a Directed-kind message addressed to "to".
func NewDirected(from, to ProcessId, payload string) Message {
	return Message{Kind: Directed, From: from, To: to, SenderID: from, Payload: payload}
}

// NewToken builds a Token-kind message handing the token from "from" to "to".
func NewToken(from, to ProcessId) Message {
	return Message{Kind: Token, From: from, To: to}
}
