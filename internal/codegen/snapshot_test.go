package codegen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGenerateSnapshotsFactorialIR snapshots the lowered IR for a small
// recursive program so layout or lowering changes show up as a snapshot
// diff rather than only as behavior changes.
func TestGenerateSnapshotsFactorialIR(t *testing.T) {
	g, _ := compile(t, "def fact(n) { if (n < 2) { 1; } else { n * fact(n - 1); } } def main() { fact(5); }")
	defer g.Dispose()

	snaps.MatchSnapshot(t, g.String())
}
