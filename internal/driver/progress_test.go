package driver

import "testing"

func TestProgressStatus(t *testing.T) {
	cases := []struct {
		status ProgressStatus
		label  string
		final  bool
	}{
		{StatusQueued, "queued", false},
		{StatusWorking, "checking", false},
		{StatusDone, "done", true},
		{StatusError, "error", true},
		{ProgressStatus(9), "unknown", false},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.label {
			t.Errorf("String() = %q, want %q", got, tc.label)
		}
		if got := tc.status.Final(); got != tc.final {
			t.Errorf("%s.Final() = %v, want %v", tc.label, got, tc.final)
		}
	}
}
