package battle

import "testing"

func TestEffectiveness(t *testing.T) {
	tests := []struct {
		name       string
		attackType string
		defender   []string
		want       float64
	}{
		{"neutral", "normal", []string{"normal"}, 1},
		{"super effective", "water", []string{"fire"}, 2},
		{"not very effective", "fire", []string{"water"}, 0.5},
		{"immune", "normal", []string{"ghost"}, 0},
		{"dual types stack", "water", []string{"fire", "ground"}, 4},
		{"dual types cancel", "fire", []string{"grass", "water"}, 1},
		{"immunity dominates", "electric", []string{"water", "ground"}, 0},
		{"unknown attack type", "shadow", []string{"normal"}, 1},
		{"no defender types", "fire", nil, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Effectiveness(tc.attackType, tc.defender); got != tc.want {
				t.Fatalf("Effectiveness(%q, %v) = %v, want %v", tc.attackType, tc.defender, got, tc.want)
			}
		})
	}
}
