package utils

import "testing"

func TestNormalizeSpace(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"   ":                    "",
		"  Twilight   Imperium ": "Twilight Imperium",
		"Deck\tBuilding\n":       "Deck Building",
	}
	for in, want := range cases {
		if got := NormalizeSpace(in); got != want {
			t.Fatalf("NormalizeSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
