package mathx

import "testing"

func TestFloorDivNegative(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{0, 32, 0},
		{31, 32, 0},
		{32, 32, 1},
		{-1, 32, -1},
		{-32, 32, -1},
		{-33, 32, -2},
		{-64, 32, -2},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.want {
			t.Errorf("FloorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestModAlwaysNonNegative(t *testing.T) {
	for a := -100; a <= 100; a++ {
		m := Mod(a, 32)
		if m < 0 || m >= 32 {
			t.Fatalf("Mod(%d,32) = %d out of range", a, m)
		}
		if FloorDiv(a, 32)*32+m != a {
			t.Fatalf("FloorDiv/Mod do not reconstruct %d", a)
		}
	}
}

func TestHash2Deterministic(t *testing.T) {
	if Hash2(42, -7, 13) != Hash2(42, -7, 13) {
		t.Fatal("Hash2 not deterministic")
	}
	if Hash2(42, -7, 13) == Hash2(43, -7, 13) {
		t.Fatal("Hash2 ignores seed")
	}
	if Hash2(42, 1, 2) == Hash2(42, 2, 1) {
		t.Fatal("Hash2 symmetric in x/y")
	}
}
