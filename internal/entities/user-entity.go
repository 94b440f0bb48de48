package entities

import (
	"fmt"

	"github.com/aarondl/null/v8"
)

// Principal is the opaque identity issued by the external identity provider.
type Principal string

// AnonymousPrincipal is the caller without a login.
const AnonymousPrincipal Principal = "2vxsx-fae"

func (p Principal) IsAnonymous() bool {
	return p == "" || p == AnonymousPrincipal
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

func ParseRole(raw string) (UserRole, error) {
	switch r := UserRole(raw); r {
	case RoleAdmin, RoleUser, RoleGuest:
		return r, nil
	}
	return "", fmt.Errorf("unknown user role %q", raw)
}

type UserProfile struct {
	Name  string      `json:"name"`
	Email null.String `json:"email"`
}

// Caller is the identity on whose behalf a backend call is made. It is passed
// explicitly to every data call.
type Caller struct {
	Principal Principal
	// Token is the identity provider's bearer token, forwarded to the backend.
	Token string
}

func AnonymousCaller() Caller {
	return Caller{Principal: AnonymousPrincipal}
}

func (c Caller) IsAnonymous() bool {
	return c.Principal.IsAnonymous()
}
