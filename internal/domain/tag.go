package domain

import (
	"regexp"
	"strconv"
	"time"
)

// UnknownDate is reported when a tag's commit carries no date.
const UnknownDate = "Unknown"

var versionPattern = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?$`)

// Version is a [v]MAJOR[.MINOR[.PATCH]] tag version. Missing parts are zero.
type Version struct {
	Major, Minor, Patch uint64
}

// ParseVersion reports whether name is a version tag and returns its version.
func ParseVersion(name string) (Version, bool) {
	m := versionPattern.FindStringSubmatch(name)
	if m == nil {
		return Version{}, false
	}
	var parts [3]uint64
	for i, s := range m[1:] {
		if s == "" {
			continue
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Version{}, false
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, true
}

// Compare returns -1, 0 or +1 comparing v to o numerically.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint(v.Minor, o.Minor)
	default:
		return cmpUint(v.Patch, o.Patch)
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Tag is a version tag and the commit it points at.
type Tag struct {
	Name     string
	Version  Version
	CommitID string
}

// ResolvedRelease is the selected tag with its commit date formatted as
// YYYY-MM-DD, or UnknownDate.
type ResolvedRelease struct {
	Tag  Tag
	Date string
}

// HasDate reports whether Date is a calendar date usable in a search query.
func (r ResolvedRelease) HasDate() bool {
	return r.Date != "" && r.Date != UnknownDate
}

// Release is a GitHub release object.
type Release struct {
	TagName     string
	PublishedAt time.Time
}

// LookupStatus distinguishes a found release from a repository without one.
type LookupStatus int

const (
	NotFound LookupStatus = iota
	Found
)

// TagLookup is the outcome of resolving a repository's latest version tag.
// Release is only meaningful when Status is Found.
type TagLookup struct {
	Status  LookupStatus
	Release ResolvedRelease
}
