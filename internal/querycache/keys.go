package querycache

import (
	"strconv"

	"repair-desk/internal/entities"
)

// Kind is the family a cache key belongs to.
type Kind string

const (
	KindServiceRequests         Kind = "serviceRequests"
	KindServiceRequest          Kind = "serviceRequest"
	KindFullServiceRequest      Kind = "fullServiceRequest"
	KindServiceRequestsByStatus Kind = "serviceRequestsByStatus"
	KindIsAdmin                 Kind = "isAdmin"
	KindCurrentUserProfile      Kind = "currentUserProfile"
)

// Key names one cached query. Arg is the request id or status; Principal
// scopes identity-bound kinds so answers never cross identities.
type Key struct {
	Kind      Kind
	Arg       string
	Principal entities.Principal
}

func (k Key) String() string {
	s := string(k.Kind)
	if k.Arg != "" {
		s += ":" + k.Arg
	}
	if k.Principal != "" {
		s += "@" + string(k.Principal)
	}
	return s
}

// IdentityScoped reports whether keys of kind carry a principal.
func (k Kind) IdentityScoped() bool {
	return k == KindIsAdmin || k == KindCurrentUserProfile
}

// CachesAbsent reports whether an absent answer for kind may be cached.
// Creating a request invalidates only the list, so a cached miss for a
// request id would outlive the request being created.
func (k Kind) CachesAbsent() bool {
	return k != KindServiceRequest && k != KindFullServiceRequest
}

// Prefix matches every key of kind that has an argument or principal. The
// separator keeps "serviceRequest:" from matching "serviceRequests".
func Prefix(kind Kind) string {
	if kind.IdentityScoped() {
		return string(kind) + "@"
	}
	return string(kind) + ":"
}

func ServiceRequests() Key {
	return Key{Kind: KindServiceRequests}
}

func ServiceRequest(id uint64) Key {
	return Key{Kind: KindServiceRequest, Arg: strconv.FormatUint(id, 10)}
}

func FullServiceRequest(id uint64) Key {
	return Key{Kind: KindFullServiceRequest, Arg: strconv.FormatUint(id, 10)}
}

func ServiceRequestsByStatus(status entities.RequestStatus) Key {
	return Key{Kind: KindServiceRequestsByStatus, Arg: string(status)}
}

func IsAdmin(p entities.Principal) Key {
	return Key{Kind: KindIsAdmin, Principal: p}
}

func CurrentUserProfile(p entities.Principal) Key {
	return Key{Kind: KindCurrentUserProfile, Principal: p}
}
