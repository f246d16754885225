package buildinfo

import "testing"

func TestGet(t *testing.T) {
	old := Commit
	defer func() { Commit = old }()

	Commit = "0123456789abcdef"
	if got := Get().Commit; got != "0123456" {
		t.Errorf("Commit = %q, want %q", got, "0123456")
	}

	Commit = "abc"
	if got := Get().Commit; got != "abc" {
		t.Errorf("Commit = %q, want %q", got, "abc")
	}
}

func TestString(t *testing.T) {
	i := Info{Version: "v1.0.0", Commit: "abc1234", Date: "2026-01-02"}
	want := "racktower v1.0.0 (abc1234, 2026-01-02)"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
