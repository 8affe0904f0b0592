package domain

// Identity is the authenticated caller, rebuilt from token claims on every request.
type Identity struct {
	Username string
	ID       uint
	IsAdmin  bool
}
