package engine

import "testing"

func TestRNG_SameSeedSameStream(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Intn(100), b.Intn(100); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}

	c, d := NewRNG(1), NewRNG(2)
	same := true
	for i := 0; i < 20 && same; i++ {
		same = c.Intn(100) == d.Intn(100)
	}
	if same {
		t.Error("seeds 1 and 2 gave identical streams")
	}
}

func TestRNG_Bounds(t *testing.T) {
	rng := NewRNG(99)
	for i := 0; i < 1000; i++ {
		if r := rng.Roll(6); r < 1 || r > 6 {
			t.Fatalf("flee roll %d outside [1, 6]", r)
		}
		if f := rng.Float64(); f < 0 || f >= 1 {
			t.Fatalf("accuracy draw %v outside [0, 1)", f)
		}
	}
	if rng.Roll(1) != 1 || rng.Intn(0) != 0 {
		t.Error("degenerate ranges should collapse")
	}
}

func TestRNG_WeightedSelect(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
		lo, hi  []int // acceptable count per slot over 5000 draws
	}{
		{"route odds", []int{30, 30, 15, 15, 5, 5}, []int{1200, 1200, 550, 550, 150, 150}, []int{1800, 1800, 950, 950, 350, 350}},
		{"single species", []int{7}, []int{5000}, []int{5000}},
		{"rare tail", []int{99, 1}, []int{4850, 10}, []int{5000, 110}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := NewRNG(2024)
			counts := make([]int, len(tt.weights))
			for i := 0; i < 5000; i++ {
				counts[rng.WeightedSelect(tt.weights)]++
			}
			for i, n := range counts {
				if n < tt.lo[i] || n > tt.hi[i] {
					t.Errorf("slot %d drawn %d times, want [%d, %d]", i, n, tt.lo[i], tt.hi[i])
				}
			}
		})
	}
}

func TestRNG_RestoreResumesStream(t *testing.T) {
	rng := NewRNG(7)
	rng.Float64()
	rng.Roll(6)
	rng.WeightedSelect([]int{50, 30, 20})
	if rng.Position() != 3 {
		t.Fatalf("position = %d, want one per draw", rng.Position())
	}
	pos := rng.Position()
	want := []int{rng.Intn(1000), rng.Intn(1000), rng.Intn(1000)}

	restored := RestoreRNG(7, pos)
	if restored.Position() != pos || restored.Seed() != 7 {
		t.Fatalf("restored at %d seed %d", restored.Position(), restored.Seed())
	}
	for i, w := range want {
		if got := restored.Intn(1000); got != w {
			t.Fatalf("draw %d after restore = %d, want %d", i, got, w)
		}
	}
}
