package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/tendril/pkg/ports"
)

const redactedValue = `"[REDACTED]"`

type redactMiddleware struct {
	next     ports.HistoryStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware masks the assigned value of any transcript entry
// whose target identifier matches one of the patterns (e.g. "(?i)token",
// "(?i)password"). A fragment like `api_token = "abc"` is stored as
// `api_token = "[REDACTED]"`; the in-memory session is untouched.
func NewRedactionMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}, nil
}

var assignRe = regexp.MustCompile(`^(\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*=\s*)(.+)$`)

func (m *redactMiddleware) Append(ctx context.Context, entry string) error {
	return m.next.Append(ctx, m.redact(entry))
}

func (m *redactMiddleware) Entries(ctx context.Context) ([]string, error) {
	return m.next.Entries(ctx)
}

func (m *redactMiddleware) Clear(ctx context.Context) error {
	return m.next.Clear(ctx)
}

func (m *redactMiddleware) redact(entry string) string {
	groups := assignRe.FindStringSubmatch(entry)
	if groups == nil {
		return entry
	}
	name := groups[2]
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return groups[1] + name + groups[3] + redactedValue
		}
	}
	return entry
}
