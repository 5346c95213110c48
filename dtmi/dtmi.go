// Package dtmi implements Digital Twin Model Identifiers.
//
// An identifier has the form dtmi:<segment>(:<segment>)*[;<version>]. The
// versionless form strips the version suffix and the local name is the last
// colon-delimited segment of the versionless form:
//
//	id, _ := dtmi.Parse("dtmi:org:brickschema:Equipment;1")
//	id.Versionless() // dtmi:org:brickschema:Equipment
//	id.LocalName()   // Equipment
//
// IDs are comparable values and can be used as map keys.
package dtmi

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/RealEstateCore/DTDL2MD/errors"
)

const (
	scheme = "dtmi:"

	// SchemaSegment marks identifiers synthesized for inline schemas. Its
	// trailing underscore makes it an invalid segment for Parse.
	SchemaSegment = "_schema_"
)

var (
	// A segment may start with underscores followed by a letter or digit (DTDL v3)
	segmentPattern = regexp.MustCompile(`^(?:_+[A-Za-z0-9]|[A-Za-z])(?:[A-Za-z0-9_]*[A-Za-z0-9])?$`)
	versionPattern = regexp.MustCompile(`^[1-9][0-9]{0,8}(?:\.[1-9][0-9]{0,5})?$`)
)

// ID is a parsed model identifier. The zero value is the empty identifier.
type ID struct {
	path    string // versionless form, including the scheme
	version string // raw version suffix without ';', may be empty
}

// Parse validates and parses a model identifier.
func Parse(s string) (ID, error) {
	if !strings.HasPrefix(s, scheme) {
		return ID{}, errors.Newf("invalid dtmi %q: missing %q prefix", s, scheme)
	}

	path, version, hasVersion := strings.Cut(s, ";")
	if hasVersion && !versionPattern.MatchString(version) {
		return ID{}, errors.Newf("invalid dtmi %q: bad version %q", s, version)
	}

	segments := strings.Split(strings.TrimPrefix(path, scheme), ":")
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return ID{}, errors.Newf("invalid dtmi %q: bad segment %q", s, seg)
		}
	}

	return ID{path: path, version: version}, nil
}

// MustParse is like Parse but panics on invalid input. Intended for tests and constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Synthetic derives an identifier for an anonymous entity owned by owner,
// such as an inline schema: <owner>:_schema_:<segments...>;<owner version>.
// Synthetic identifiers do not pass Parse and never collide with declared ones.
func Synthetic(owner ID, segments ...string) ID {
	parts := append([]string{owner.path, SchemaSegment}, segments...)
	return ID{path: strings.Join(parts, ":"), version: owner.version}
}

// String returns the full identifier including the version suffix.
func (id ID) String() string {
	if id.version == "" {
		return id.path
	}
	return id.path + ";" + id.version
}

// Versionless returns the identifier without its version suffix.
func (id ID) Versionless() string {
	return id.path
}

// LocalName returns the last segment of the versionless identifier.
func (id ID) LocalName() string {
	if i := strings.LastIndexByte(id.path, ':'); i >= 0 {
		return id.path[i+1:]
	}
	return id.path
}

// Version returns the parsed version, or nil when the identifier has none.
func (id ID) Version() *semver.Version {
	if id.version == "" {
		return nil
	}
	v, err := semver.NewVersion(id.version)
	if err != nil {
		return nil
	}
	return v
}

// IsZero reports whether id is the empty identifier.
func (id ID) IsZero() bool {
	return id.path == ""
}

// Compare orders identifiers by versionless form, then by version.
// Unversioned identifiers sort before versioned ones.
func Compare(a, b ID) int {
	if c := strings.Compare(a.path, b.path); c != 0 {
		return c
	}
	av, bv := a.Version(), b.Version()
	switch {
	case av == nil && bv == nil:
		return strings.Compare(a.version, b.version)
	case av == nil:
		return -1
	case bv == nil:
		return 1
	}
	return av.Compare(bv)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
