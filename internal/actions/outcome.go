package actions

import (
	"fmt"

	"invoice-dashboard-backend/internal/validation"
)

// State is the form state handed back to the caller for re-rendering.
type State struct {
	Errors  validation.FieldErrors `json:"errors,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Kind is the terminal state a mutation ended in.
type Kind int

const (
	// Rejected: validation failed, nothing was written.
	Rejected Kind = iota + 1
	// Failed: the storage call failed.
	Failed
	// Redirect: committed and revalidated; the caller must navigate to
	// Location and do nothing else.
	Redirect
	// Returned: committed and revalidated, no navigation.
	Returned
)

func (k Kind) String() string {
	switch k {
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case Redirect:
		return "redirect"
	case Returned:
		return "returned"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Outcome struct {
	Kind     Kind
	State    State
	Location string
}

func rejected(errs validation.FieldErrors, msg string) Outcome {
	return Outcome{Kind: Rejected, State: State{Errors: errs, Message: msg}}
}

func failed(msg string) Outcome {
	return Outcome{Kind: Failed, State: State{Message: msg}}
}

func redirect(path string) Outcome {
	return Outcome{Kind: Redirect, Location: path}
}

func returned() Outcome {
	return Outcome{Kind: Returned}
}
