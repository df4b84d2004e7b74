package catalog

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Cool Dataset!", "my_cool_dataset"},
		{"bench-rig 7", "bench_rig_7"},
		{"  Flight   Logs  ", "flight_logs"},
		{"already_fine", "already_fine"},
		{"///", "dataset"},
		{"", "dataset"},
		{"Ünïcode Näme", "ünïcode_näme"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
