// AngelaMos | 2026
// policy.go

package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

type Requirement int

const (
	RequirePublic Requirement = iota
	RequireAuthenticated
	RequireAdmin
)

func (r Requirement) String() string {
	switch r {
	case RequirePublic:
		return "public"
	case RequireAuthenticated:
		return "authenticated"
	case RequireAdmin:
		return "admin"
	default:
		return fmt.Sprintf("requirement(%d)", int(r))
	}
}

// Rule binds a set of methods and path patterns to a requirement. An empty
// Methods list matches any method. In a pattern, "*" matches exactly one
// path segment and a trailing "**" matches zero or more segments.
type Rule struct {
	Methods  []string
	Patterns []string
	Require  Requirement
}

type compiledRule struct {
	methods  map[string]struct{}
	patterns [][]string
	require  Requirement
}

// Policy is an ordered list of rules. The first matching rule wins, so more
// specific rules must come first. A request matching no rule requires
// authentication.
type Policy struct {
	rules []compiledRule
}

func NewPolicy(rules ...Rule) (*Policy, error) {
	p := &Policy{rules: make([]compiledRule, 0, len(rules))}

	for i, rule := range rules {
		if len(rule.Patterns) == 0 {
			return nil, fmt.Errorf("policy rule %d: no patterns", i)
		}

		cr := compiledRule{require: rule.Require}

		if len(rule.Methods) > 0 {
			cr.methods = make(map[string]struct{}, len(rule.Methods))
			for _, m := range rule.Methods {
				cr.methods[strings.ToUpper(m)] = struct{}{}
			}
		}

		for _, pattern := range rule.Patterns {
			segs := splitPath(pattern)
			for j, seg := range segs {
				if seg == "**" && j != len(segs)-1 {
					return nil, fmt.Errorf(
						"policy rule %d: %q: ** must be the last segment",
						i,
						pattern,
					)
				}
			}
			cr.patterns = append(cr.patterns, segs)
		}

		p.rules = append(p.rules, cr)
	}

	return p, nil
}

func MustPolicy(rules ...Rule) *Policy {
	p, err := NewPolicy(rules...)
	if err != nil {
		panic(err)
	}
	return p
}

var mutating = []string{http.MethodPost, http.MethodPut, http.MethodDelete}

// DefaultRules is the route table of the catalog API.
func DefaultRules() []Rule {
	return []Rule{
		{
			Patterns: []string{"/auth/register", "/auth/login"},
			Require:  RequirePublic,
		},
		{
			Methods:  []string{http.MethodGet},
			Patterns: []string{"/healthz", "/livez", "/readyz", "/metrics"},
			Require:  RequirePublic,
		},
		{
			Methods:  []string{http.MethodPost},
			Patterns: []string{"/movies/suggest", "/movies/*/suggest"},
			Require:  RequireAuthenticated,
		},
		{
			Methods:  []string{http.MethodGet},
			Patterns: []string{"/movies", "/movies/**"},
			Require:  RequirePublic,
		},
		{
			Methods:  mutating,
			Patterns: []string{"/movies", "/movies/**"},
			Require:  RequireAdmin,
		},
		{
			Methods:  []string{http.MethodGet},
			Patterns: []string{"/reviews", "/reviews/**"},
			Require:  RequirePublic,
		},
		{
			Methods:  mutating,
			Patterns: []string{"/reviews", "/reviews/**"},
			Require:  RequireAuthenticated,
		},
		{
			Patterns: []string{"/admin/**"},
			Require:  RequireAdmin,
		},
		{
			Patterns: []string{"**"},
			Require:  RequireAuthenticated,
		},
	}
}

func DefaultPolicy() *Policy {
	return MustPolicy(DefaultRules()...)
}

// Evaluate returns the requirement of the first rule matching the request.
// HEAD is evaluated as GET and OPTIONS preflights are always public.
func (p *Policy) Evaluate(method, path string) Requirement {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodOptions:
		return RequirePublic
	case http.MethodHead:
		method = http.MethodGet
	}

	segs := splitPath(path)

	for _, rule := range p.rules {
		if rule.methods != nil {
			if _, ok := rule.methods[method]; !ok {
				continue
			}
		}

		for _, pattern := range rule.patterns {
			if matchSegments(pattern, segs) {
				return rule.require
			}
		}
	}

	return RequireAuthenticated
}

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Authorize decides a request from its requirement and the resolved
// identity, which is nil for anonymous callers.
func Authorize(req Requirement, id *Identity) Decision {
	switch req {
	case RequirePublic:
		return Allow
	case RequireAdmin:
		if id == nil {
			return DenyUnauthenticated
		}
		if !id.IsAdmin() {
			return DenyForbidden
		}
		return Allow
	default:
		if id == nil {
			return DenyUnauthenticated
		}
		return Allow
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, path []string) bool {
	for i, seg := range pattern {
		if seg == "**" {
			return true
		}
		if i >= len(path) {
			return false
		}
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return len(pattern) == len(path)
}
