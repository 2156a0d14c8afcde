package engine

import "github.com/themobileprof/buildok/pkg/models"

// Decision is what the runner does after an instruction returns
type Decision int

const (
	Continue  Decision = iota // run the next instruction
	Abort                     // stop the topic, status Failed
	Stop                      // stop the topic, status OK
	Terminate                 // stop everything, status Exit
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Abort:
		return "abort"
	case Stop:
		return "stop"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Decide maps a step's punctuation and outcome to the next move.
//
//	.  continue  | continue
//	;  continue  | abort
//	?  stop      | continue
//	:  continue  | abort
//	!  terminate | terminate
func Decide(p models.Punctuation, success bool) Decision {
	switch p {
	case models.And, models.Args:
		if success {
			return Continue
		}
		return Abort
	case models.Xor:
		if success {
			return Stop
		}
		return Continue
	case models.Sudo:
		return Terminate
	default:
		return Continue
	}
}

// decideFault is the move after a handler fault. Faults abort the topic
// whatever the punctuation, except that SUDO still terminates.
func decideFault(p models.Punctuation) Decision {
	if p == models.Sudo {
		return Terminate
	}
	return Abort
}
