package main

import "testing"

func TestNextPort_CountsUpFromConfiguredPort(t *testing.T) {
	cases := []struct {
		initial string
		attempt int
		want    string
	}{
		{"9000", 0, "9001"},
		{"9000", 1, "9002"},
		{"8080", 0, "8081"},
		{"not-a-port", 0, "8081"},
	}

	for _, tc := range cases {
		if got := nextPort(tc.initial, tc.attempt); got != tc.want {
			t.Errorf("nextPort(%q, %d) = %s, want %s", tc.initial, tc.attempt, got, tc.want)
		}
	}
}
