package controller

import "testing"

func TestParseView(t *testing.T) {
	tests := []struct {
		in   string
		want ViewName
		ok   bool
	}{
		{"Home", Home, true},
		{"browse", Browse, true},
		{"my-items", MyItems, true},
		{"My Items", MyItems, true},
		{" TIPS ", Tips, true},
		{"settings", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseView(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseView(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDialogKindRoundTrip(t *testing.T) {
	for _, k := range []DialogKind{Confirmation, Notification, Post} {
		got, ok := ParseDialogKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseDialogKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseDialogKind("modal"); ok {
		t.Error("expected unknown kind to fail")
	}
	if got := DialogKind(9).String(); got != "DialogKind(9)" {
		t.Errorf("unexpected name for unknown kind: %q", got)
	}
}
