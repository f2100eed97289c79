package duel

import "strings"

// Status describes the lifecycle state of a session.
type Status int

const (
	// StatusUnspecified represents an invalid status value.
	StatusUnspecified Status = iota
	// StatusNew is a freshly created session waiting for its first opponent.
	StatusNew
	// StatusWaiting is a session whose opponent left.
	StatusWaiting
	// StatusInProgress is a session with both seats taken.
	StatusInProgress
	// StatusFinished is terminal.
	StatusFinished
)

var statusNames = map[Status]string{
	StatusNew:        "NEW",
	StatusWaiting:    "WAITING",
	StatusInProgress: "IN_PROGRESS",
	StatusFinished:   "FINISHED",
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNSPECIFIED"
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(value string) Status {
	value = strings.ToUpper(strings.TrimSpace(value))
	for status, name := range statusNames {
		if name == value {
			return status
		}
	}
	return StatusUnspecified
}
