package model

import (
	"strings"
	"time"
)

// NormalizeServerID reduces a server identifier to its canonical comparison
// key: the prefix before the first hyphen. Pterodactyl hands out both the
// long UUID form and the short prefix form for the same server; every
// comparison in this codebase goes through this function so the two forms
// always match each other.
func NormalizeServerID(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 0 {
		return id[:i]
	}
	return id
}

// Identity is the session-scoped view of a user. It is reconstructed from
// session storage on every request and is never the source of truth for
// ownership; the panel is consulted per authorization decision.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// SubuserRecord is one server a user can access without owning it. Stored
// under subuser-servers-{username}; written only by the synchronizer.
// Records are never pruned on revocation (known gap in the upstream data
// model: the panel does not notify us on removal).
type SubuserRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID int    `json:"ownerId"`
}

// Subuser is one entry of the verbatim per-server collaborator snapshot
// stored under subusers-{serverID}.
type Subuser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ActivityEntry is one line of a server's capped activity log, newest first.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
