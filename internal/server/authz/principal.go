// Package authz models the acting principal and evaluates per-entity,
// per-operation authorization decisions. Decisions are pure functions over
// in-memory rows; the repositories additionally scope their SQL by owner so
// a denied read surfaces as zero rows rather than an error.
package authz

// Kind classifies the acting principal.
type Kind int

const (
	// KindAnonymous is an unauthenticated request. Requests whose credential
	// cannot be resolved are treated as anonymous, not as an error.
	KindAnonymous Kind = iota
	// KindUser is an ordinary authenticated user.
	KindUser
	// KindService is a trusted service-level actor (operator tooling,
	// scheduled jobs). It bypasses ordinary-principal restrictions the way
	// a service role bypasses row-level security.
	KindService
)

// Principal is the identity a request acts as.
type Principal struct {
	Kind   Kind
	UserID string
	Email  string
	Admin  bool
}

func Anonymous() Principal {
	return Principal{Kind: KindAnonymous}
}

func ServiceActor() Principal {
	return Principal{Kind: KindService}
}

func UserActor(userID, email string, admin bool) Principal {
	return Principal{Kind: KindUser, UserID: userID, Email: email, Admin: admin}
}

// Authenticated reports whether the principal carries a user identity.
func (p Principal) Authenticated() bool {
	return p.Kind == KindUser && p.UserID != ""
}

// IsService reports whether the principal is a trusted service-level actor.
func (p Principal) IsService() bool {
	return p.Kind == KindService
}

// IsAdmin reports whether the principal has the admin role. Service actors
// count as admin for content and token management.
func (p Principal) IsAdmin() bool {
	return p.IsService() || (p.Authenticated() && p.Admin)
}
