package gate

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// Param is the query parameter carrying the credential
const Param = "password"

// Decision is the result of a credential check
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Comparator reports whether a presented credential matches the expected one
type Comparator func(expected, presented string) bool

// ConstantTimeEqual compares credentials without leaking match length through timing
func ConstantTimeEqual(expected, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}

// Gate admits requests that present the configured credential
type Gate struct {
	expected string
	compare  Comparator
}

// Option configures a Gate
type Option func(*Gate)

// New creates a Gate expecting credential expected.
// An empty expected value denies everything.
func New(expected string, opts ...Option) *Gate {
	g := &Gate{
		expected: expected,
		compare:  ConstantTimeEqual,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check decides whether a credential is admitted
func (g *Gate) Check(credential string, present bool) Decision {
	if !present || credential == "" || g.expected == "" {
		return Deny
	}
	if !g.compare(g.expected, credential) {
		return Deny
	}
	return Allow
}

// Middleware forwards admitted requests unchanged to next and answers
// everything else with 403
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		_, present := q[Param]
		if g.Check(q.Get(Param), present) == Deny {
			slog.Debug("access denied", "path", r.URL.Path, "credential_present", present)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
