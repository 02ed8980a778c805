package geo

import "testing"

func TestUsableRing(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want bool
	}{
		{"triangle", Ring{{0, 0}, {1, 0}, {0, 1}}, true},
		{"closed square", Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, true},
		{"two points", Ring{{0, 0}, {1, 1}}, false},
		{"repeated point", Ring{{0, 0}, {0, 0}, {0, 0}, {0, 0}}, false},
		{"two distinct of four", Ring{{0, 0}, {1, 1}, {0, 0}, {1, 1}}, false},
		{"empty", Ring{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UsableRing(tt.ring); got != tt.want {
				t.Errorf("UsableRing = %v, want %v", got, tt.want)
			}
		})
	}
}
