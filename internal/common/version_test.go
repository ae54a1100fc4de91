package common

import "testing"

func TestApplyVersionValue_FillsDefaultsOnly(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "dev", "unknown", "unknown"

	applyVersionValue("version", "1.2.3")
	applyVersionValue("build", "2026-08-29T10:00:00Z")
	applyVersionValue("commit", "abc1234")

	if Version != "1.2.3" || Build != "2026-08-29T10:00:00Z" || GitCommit != "abc1234" {
		t.Errorf("defaults not filled: %s / %s / %s", Version, Build, GitCommit)
	}

	// ldflags-injected values are never overwritten
	applyVersionValue("version", "9.9.9")
	if Version != "1.2.3" {
		t.Errorf("Version overwritten to %s", Version)
	}

	applyVersionValue("commit", "")
	if GitCommit != "abc1234" {
		t.Errorf("empty value overwrote commit: %s", GitCommit)
	}
}

func TestGetFullVersion(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "1.0.0", "b42", "deadbee"
	if got := GetFullVersion(); got != "1.0.0 (build: b42, commit: deadbee)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}
