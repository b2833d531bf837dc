package parser

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  Intent{},
		},

		// Direction shortcuts
		{
			name:  "n → go up",
			input: "n",
			want:  Intent{Verb: "go", Object: "up"},
		},
		{
			name:  "s → go down",
			input: "s",
			want:  Intent{Verb: "go", Object: "down"},
		},
		{
			name:  "west → go left",
			input: "west",
			want:  Intent{Verb: "go", Object: "left"},
		},
		{
			name:  "right → go right",
			input: "RIGHT",
			want:  Intent{Verb: "go", Object: "right"},
		},

		// Explicit go
		{
			name:  "go north",
			input: "go north",
			want:  Intent{Verb: "go", Object: "up"},
		},
		{
			name:  "walk left",
			input: "walk left",
			want:  Intent{Verb: "go", Object: "left"},
		},
		{
			name:  "move to the east",
			input: "move to the east",
			want:  Intent{Verb: "go", Object: "right"},
		},

		// Raw action ids
		{
			name:  "bare number",
			input: "3",
			want:  Intent{Verb: "action", Object: "3"},
		},

		// Moves
		{
			name:  "use ember",
			input: "use ember",
			want:  Intent{Verb: "use", Object: "ember"},
		},
		{
			name:  "attack alias",
			input: "attack thunder shock",
			want:  Intent{Verb: "use", Object: "thunder shock"},
		},
		{
			name:  "preposition as delimiter",
			input: "use ember on the rattata",
			want:  Intent{Verb: "use", Object: "ember", Target: "rattata"},
		},

		// Escape
		{
			name:  "run",
			input: "run",
			want:  Intent{Verb: "flee"},
		},
		{
			name:  "run away",
			input: "run away",
			want:  Intent{Verb: "flee"},
		},

		// Items and roster
		{
			name:  "use potion",
			input: "use potion",
			want:  Intent{Verb: "potion"},
		},
		{
			name:  "heal",
			input: "heal",
			want:  Intent{Verb: "potion"},
		},
		{
			name:  "switch out",
			input: "switch out",
			want:  Intent{Verb: "switch"},
		},
		{
			name:  "swap",
			input: "swap",
			want:  Intent{Verb: "switch"},
		},

		// Unknown verbs pass through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  Intent{Verb: "dance", Object: "wildly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
