package protocol

// VersionResult is the outcome of an asset version check.
type VersionResult int

const (
	// Match means the client may keep its loaded assets.
	Match VersionResult = iota

	// Mismatch means the client runs a stale bundle and must reload.
	Mismatch
)

// String returns the result name.
func (v VersionResult) String() string {
	if v == Mismatch {
		return "mismatch"
	}
	return "match"
}

// CheckVersion compares the client's asserted version with the current one.
// It only reports Mismatch when both are known and differ; a client that
// asserts nothing, or a server without a version, always matches.
func CheckVersion(asserted, current string) VersionResult {
	if asserted == "" || current == "" {
		return Match
	}
	if asserted != current {
		return Mismatch
	}
	return Match
}
