package storage

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client supplied name to [A-Za-z0-9_.-], joining
// whitespace runs with "_" and dropping path components and leading dots.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// UploadName returns a collision-free stored name for an uploaded file.
func UploadName(original string) string {
	id := uuid.NewString()
	if safe := SecureFilename(original); safe != "" {
		return id + "_" + safe
	}
	return id
}

// ValidName reports whether name could have come from UploadName.
func ValidName(name string) bool {
	return name != "" && name == SecureFilename(name)
}
