package stats

import "testing"

func TestClassifyState(t *testing.T) {
	tests := []struct {
		code byte
		want ProcState
	}{
		{'R', StateRunning},
		{'S', StateSleeping},
		{'D', StateSleeping},
		{'I', StateIdle},
		{'Z', StateZombie},
		{'T', StateStopped},
		{'t', StateStopped},
		{'X', StateOther},
		{'?', StateOther},
	}

	for _, tt := range tests {
		if got := ClassifyState(tt.code); got != tt.want {
			t.Errorf("ClassifyState(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		code byte
		want string
	}{
		{'R', "Running"},
		{'S', "Sleeping"},
		{'D', "Sleeping"},
		{'I', "Idle"},
		{'Z', "Zombie"},
		{'T', "Stopped"},
		{'t', "Stopped"},
		// Unknown codes pass through as their raw character.
		{'X', "X"},
		{'W', "W"},
	}

	for _, tt := range tests {
		if got := StateLabel(tt.code); got != tt.want {
			t.Errorf("StateLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
