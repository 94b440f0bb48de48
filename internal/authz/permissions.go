package authz

// State of the admin access gate.
type State string

const (
	// StateResolving: identity or role is still being determined.
	StateResolving State = "resolving"
	StateDenied    State = "denied"
	StateGranted   State = "granted"
)

// Action is something the access-denied view offers the visitor.
type Action string

const (
	ActionLogin Action = "login"
	ActionHome  Action = "home"
)

// Resolution is what is known so far about the caller. A field is only
// meaningful once its Known flag is set.
type Resolution struct {
	IdentityKnown bool
	HasIdentity   bool
	RoleKnown     bool
	IsAdmin       bool
}

type Decision struct {
	State   State    `json:"state"`
	Actions []Action `json:"actions,omitempty"`
}

// Decide is the gate's transition function. It never leaves resolving until
// both the identity and the role are known.
func Decide(r Resolution) Decision {
	if !r.IdentityKnown || !r.RoleKnown {
		return Decision{State: StateResolving}
	}
	if r.HasIdentity && r.IsAdmin {
		return Decision{State: StateGranted}
	}
	actions := []Action{ActionHome}
	if !r.HasIdentity {
		actions = []Action{ActionLogin, ActionHome}
	}
	return Decision{State: StateDenied, Actions: actions}
}
