package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	info := Current()
	if info.Version != Version || info.GitCommit != GitCommit || info.BuildDate != BuildDate {
		t.Errorf("Current() = %+v does not mirror package variables", info)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	}()

	// как при сборке с -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	want := Info{Version: "1.2.3", GitCommit: "abc123def456", BuildDate: "2024-01-15T10:30:00Z"}
	if got := Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	cases := []string{
		"0.1.0",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
		"2.0",
		"dev",
		"",
	}
	for _, v := range cases {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without colour = %q", v, got)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Error("expected ANSI escapes when colour is enabled")
	}
	if got := Colored("dev"); got != "dev" {
		t.Errorf("non-semver string changed: %q", got)
	}
}

func BenchmarkVersionAccess(b *testing.B) {
	b.Run("Current", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = Current()
		}
	})
}
