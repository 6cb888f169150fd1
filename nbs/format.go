package nbs

import "fmt"

// LatestVersion is the newest extended format version this package knows the layout of.
// Newer versions are decoded as if they had every field LatestVersion has.
const LatestVersion int8 = 4

// Format identifies the on-disk layout of a song: either the legacy layout
// without a version byte, or the extended layout with a version number.
type Format struct {
	extended bool
	version  int8
}

// Legacy is the original layout: no version byte, 10 built-in instruments, no loop fields.
var Legacy = Format{}

// Extended returns the versioned extended layout.
func Extended(version int8) Format {
	return Format{extended: true, version: version}
}

// IsExtended reports whether the format carries a version byte.
func (f Format) IsExtended() bool {
	return f.extended
}

// Version returns the extended version number, or 0 for the legacy format.
// Field gates compare with >= so a legacy song never has a version-gated field.
func (f Format) Version() int8 {
	if !f.extended {
		return 0
	}
	return f.version
}

func (f Format) String() string {
	if !f.extended {
		return "legacy"
	}
	return fmt.Sprintf("extended v%d", f.version)
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
