package state

// StatusLimit is the fixed capacity of the status log.
const StatusLimit = 20

// StatusLog is a bounded FIFO of status messages. Once full, pushing
// evicts the oldest entry.
type StatusLog struct {
	entries []string
}

// Push appends a message, evicting the oldest entry when full.
func (l *StatusLog) Push(msg string) {
	if len(l.entries) == StatusLimit {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, msg)
}

// Entries returns the messages oldest first.
func (l *StatusLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent message, or "".
func (l *StatusLog) Last() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

// Len returns the number of stored messages.
func (l *StatusLog) Len() int {
	return len(l.entries)
}
