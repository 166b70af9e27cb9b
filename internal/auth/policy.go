// Package auth implements the credential-gate: a static allow-list of
// researcher IDs exchanged for a signed session token.
package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// AuthorizationPolicy is the set of credential IDs allowed to log in.
// Matching is case-insensitive and ignores surrounding whitespace.
type AuthorizationPolicy struct {
	allowed map[string]struct{}
}

// NewPolicy builds a policy from a list of IDs.
func NewPolicy(ids []string) *AuthorizationPolicy {
	p := &AuthorizationPolicy{allowed: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if norm := normalize(id); norm != "" {
			p.allowed[norm] = struct{}{}
		}
	}
	return p
}

// LoadPolicyFile builds a policy from a file with one credential ID per
// line. Blank lines and lines starting with # are skipped.
func LoadPolicyFile(path string) (*AuthorizationPolicy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open authorized ids file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read authorized ids file: %w", err)
	}
	return NewPolicy(ids), nil
}

// Authorized reports whether the credential ID is on the allow-list.
func (p *AuthorizationPolicy) Authorized(id string) bool {
	_, ok := p.allowed[normalize(id)]
	return ok
}

// Size returns how many IDs the policy holds.
func (p *AuthorizationPolicy) Size() int {
	return len(p.allowed)
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
