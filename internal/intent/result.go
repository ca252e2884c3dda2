// Package intent defines the plain-data intent records script host calls
// produce, the pure validators that accept or reject them, and the
// OperationResult a bot script observes on its stack.
package intent

// OperationResult is the script-visible outcome of a validated intent
// (spec.md §4.7). Never an ExecutionError: a rejected intent is ordinary
// control flow for a bot program, not a VM fault.
type OperationResult int8

// The integer values are stable: scripts see them on their stack.
const (
	Ok              OperationResult = 0
	NotOwner        OperationResult = -1
	InvalidInput    OperationResult = -2
	OperationFailed OperationResult = -3
	NotInRange      OperationResult = -4
	InvalidTarget   OperationResult = -5
	Empty           OperationResult = -6
	Full            OperationResult = -7
	PathNotFound    OperationResult = -8
)

func (r OperationResult) String() string {
	switch r {
	case Ok:
		return "Ok"
	case NotOwner:
		return "NotOwner"
	case InvalidInput:
		return "InvalidInput"
	case OperationFailed:
		return "OperationFailed"
	case NotInRange:
		return "NotInRange"
	case InvalidTarget:
		return "InvalidTarget"
	case Empty:
		return "Empty"
	case Full:
		return "Full"
	case PathNotFound:
		return "PathNotFound"
	default:
		return "Unknown"
	}
}
