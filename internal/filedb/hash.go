package filedb

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize canonicalizes content before hashing: LF
// line endings and exactly one trailing newline. Hash applies it before
// digesting, so a hash computed in memory matches the hash of the bytes
// read back from disk even where those differ only in line endings or
// trailing newlines; writes themselves are not normalized.
func Normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return ""
	}
	return content + "\n"
}

// Hash returns the hex-encoded SHA-256 digest of content after
// normalization.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(Normalize(content)))
	return hex.EncodeToString(sum[:])
}
