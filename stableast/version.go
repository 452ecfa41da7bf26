package stableast

import "golang.org/x/mod/semver"

// SchemaVersion is the Stable AST wire format's own version (spec §4.3:
// "this tree is the wire form of a program; it must be stable across
// compiler versions for equal source"). It only changes when a `kind`
// tag's shape changes in a way that breaks an existing consumer —
// adding a new `kind` a forward-compatible reader ignores does not
// require a bump.
const SchemaVersion = "v1.0.0"

func init() {
	if !semver.IsValid(SchemaVersion) {
		panic("stableast: SchemaVersion is not a valid semantic version: " + SchemaVersion)
	}
}

// CompatibleVersion reports whether a Stable AST document produced at
// producedVersion can still be read by this package: same major version,
// and no newer than SchemaVersion (an older-major document may have
// dropped compatibility; a newer one may use shapes this package
// doesn't know yet).
func CompatibleVersion(producedVersion string) bool {
	if !semver.IsValid(producedVersion) {
		return false
	}

	return semver.Major(producedVersion) == semver.Major(SchemaVersion) &&
		semver.Compare(producedVersion, SchemaVersion) <= 0
}
