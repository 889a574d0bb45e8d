package version

import "testing"

func TestString(t *testing.T) {
	prev := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = prev[0], prev[1], prev[2] })

	Version, Commit, Date = "v1.2.0", "abc123", "2026-10-17"
	if got, want := String(), "v1.2.0 (commit abc123, built 2026-10-17)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := UserAgent("sdk"), "moviematch-sdk/v1.2.0"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
