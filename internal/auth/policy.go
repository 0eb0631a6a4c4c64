package auth

import "net/http"

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Policy decides whether an authenticated identity may use the given method
// on a resource. Ownership of personal rows is not a policy concern - repos
// filter those by owner, so foreign rows are simply absent.
type Policy func(identity Identity, method string) bool

// AdminOrReadOnly: reads for everyone authenticated, writes for staff only.
// Used by the shared reference data (muscle groups, exercises).
func AdminOrReadOnly(identity Identity, method string) bool {
	if safeMethods[method] {
		return true
	}
	return identity.IsStaff
}

// AnyAuthenticated passes every method through; the auth middleware has
// already rejected anonymous callers.
func AnyAuthenticated(Identity, string) bool {
	return true
}
