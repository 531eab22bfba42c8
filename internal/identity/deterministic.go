package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ItemUUID identifies a content item. Stable across runs for the same
// identifier, so feed GUIDs survive rebuilds.
func ItemUUID(identifier string) uuid.UUID {
	return UUID("go-sitegen:item:" + strings.TrimSpace(identifier))
}

// TagUUID identifies a tag listing page by its sanitized segment.
func TagUUID(segment string) uuid.UUID {
	return UUID("go-sitegen:tag:" + strings.ToLower(strings.TrimSpace(segment)))
}

// RunUUID identifies a build invocation for diagnostics. Seeded by the
// site root and start timestamp rather than randomness so log correlation
// stays reproducible in tests.
func RunUUID(baseURL, startedAt string) uuid.UUID {
	return UUID("go-sitegen:run:" + strings.TrimSpace(baseURL) + ":" + strings.TrimSpace(startedAt))
}
