package utils

import "testing"

func TestSameAnswer(t *testing.T) {
	cases := []struct {
		guess, name string
		want        bool
	}{
		{"Sherlock Holmes", "Sherlock Holmes", true},
		{"sherlock holmes", "Sherlock Holmes", true},
		{"  SHERLOCK   HOLMES  ", "Sherlock Holmes", true},
		{"Sherlock", "Sherlock Holmes", false},
		{"", "Sherlock Holmes", false},
		{"   ", "Sherlock Holmes", false},
		{"watson", "Sherlock Holmes", false},
	}
	for _, tc := range cases {
		if got := SameAnswer(tc.guess, tc.name); got != tc.want {
			t.Errorf("SameAnswer(%q, %q) = %v, want %v", tc.guess, tc.name, got, tc.want)
		}
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("ids should be non-empty and unique: %q %q", a, b)
	}
}
