package domain

import "testing"

func TestCommand_String(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"navigate", Command{Action: ActionNavigate, URL: "https://shop.local/cart"}, "navigate to https://shop.local/cart"},
		{"click selector", Command{Action: ActionClick, Target: "#checkout"}, "click #checkout"},
		{"click reference", Command{Action: ActionClick, Target: "@submit"}, "click @submit"},
		{"type", Command{Action: ActionType, Text: "alice", Target: "#user"}, `type "alice" into #user`},
		{"discover whole page", Command{Action: ActionDiscover}, "discover elements"},
		{"discover scoped", Command{Action: ActionDiscover, Scope: "#nav"}, "discover elements in #nav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRefTargets(t *testing.T) {
	if !IsRef("@login") {
		t.Error("@login should be a reference")
	}
	if IsRef("#login") {
		t.Error("#login should not be a reference")
	}
	if got := RefName("@login"); got != "login" {
		t.Errorf("expected login, got %q", got)
	}
}
