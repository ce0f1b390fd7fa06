package store

import (
	"strings"

	"github.com/google/uuid"
)

// tempIDPrefix marks identifiers synthesized locally during an optimistic
// create, so they can never collide with server-issued ids.
const tempIDPrefix = "tmp_"

// Entity is the contract an entity type must satisfy to live in a Store.
// Methods return modified copies: entities are plain values, so collection
// snapshots taken for rollback stay untouched by later patches.
type Entity[T any] interface {
	// EntityID returns the entity's identifier, temporary or server-issued.
	EntityID() string

	// WithEntityID returns a copy with the given identifier.
	WithEntityID(id string) T

	// WithPending returns a copy with the in-flight mutation flag set.
	WithPending(pending bool) T

	// WithDeleting returns a copy with the in-flight delete flag set.
	WithDeleting(deleting bool) T
}

// Meta carries the in-flight mutation flags common to every entity type.
// Embed it in an entity struct; the flags never travel to the server.
type Meta struct {
	Pending  bool `json:"-"`
	Deleting bool `json:"-"`
}

// TempID synthesizes a temporary identifier for an optimistic create.
func TempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was synthesized locally.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
