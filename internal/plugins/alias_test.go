package plugins

import "testing"

func TestIsPluginID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"@forge/plugin-babel", true},
		{"forge-plugin-babel", true},
		{"@acme/forge-plugin-babel", true},
		{"@forge/babel", false},
		{"babel", false},
		{"@acme/babel-plugin", false},
		{"@broken", false},
	}

	for _, tt := range tests {
		if got := IsPluginID(tt.id); got != tt.want {
			t.Errorf("IsPluginID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"@forge/plugin-babel", "babel"},
		{"forge-plugin-babel", "babel"},
		{"@acme/forge-plugin-babel", "babel"},
		{"babel", "babel"},
	}

	for _, tt := range tests {
		if got := ShortID(tt.id); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestMatchesPluginID(t *testing.T) {
	tests := []struct {
		input string
		full  string
		want  bool
	}{
		// Documented alias forms all resolve to the canonical id
		{"@forge/plugin-babel", "@forge/plugin-babel", true},
		{"babel", "@forge/plugin-babel", true},
		{"plugin-babel", "@forge/plugin-babel", true},
		{"@forge/babel", "@forge/plugin-babel", true},
		{"babel", "@acme/forge-plugin-babel", true},
		{"forge-plugin-babel", "@acme/forge-plugin-babel", true},
		{"@acme/babel", "@acme/forge-plugin-babel", true},

		// Scope mismatch is not an alias
		{"@other/babel", "@acme/forge-plugin-babel", false},
		{"@acme/babel", "@forge/plugin-babel", false},

		// Different plugins never match
		{"typescript", "@forge/plugin-babel", false},
		{"@forge/plugin-typescript", "@forge/plugin-babel", false},
	}

	for _, tt := range tests {
		if got := MatchesPluginID(tt.input, tt.full); got != tt.want {
			t.Errorf("MatchesPluginID(%q, %q) = %v, want %v", tt.input, tt.full, got, tt.want)
		}
	}
}
