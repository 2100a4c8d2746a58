package utils

import (
	"strings"

	"github.com/google/uuid"
)

// derivedNamespace scopes name-based ids to this application
var derivedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("kharchapal/derived"))

// NewID creates a random id for a new record
func NewID() string {
	return uuid.New().String()
}

// DerivedID returns an id determined by parts, so a record derived from
// another gets the same id every time it is derived.
func DerivedID(parts ...string) string {
	return uuid.NewSHA1(derivedNamespace, []byte(strings.Join(parts, "/"))).String()
}
