// Package shortid generates short opaque identifiers for accounts and
// transactions: the first segment of a random UUID, which keeps keys compact
// while staying collision-resistant at this system's scale.
package shortid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh 8-character hex identifier.
func New() string {
	id := uuid.New().String()
	return id[:strings.Index(id, "-")]
}
