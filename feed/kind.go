package feed

import (
	"fmt"
	"strings"
)

// Kind selects which feed a run produces.
type Kind string

const (
	People   Kind = "people"
	Articles Kind = "articles"
)

// Kinds returns every supported feed kind.
func Kinds() []Kind {
	return []Kind{People, Articles}
}

// KindNames returns the kinds as strings, for flags and validation.
func KindNames() []string {
	names := make([]string, 0, 2)
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return names
}

// ParseKind parses a feed type name, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown feed type %q (expected one of %s)", s, strings.Join(KindNames(), ", "))
	}
	return k, nil
}

// IsValid reports whether k is a supported kind.
func (k Kind) IsValid() bool {
	return k == People || k == Articles
}

func (k Kind) String() string { return string(k) }
