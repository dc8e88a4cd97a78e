package zone

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		warehouse string
		customer  string
		want      int
	}{
		{"same prefix", "400001", "400050", Local},
		{"same circle different prefix", "400001", "411001", Regional},
		{"different circle", "400001", "110001", National},
		{"empty warehouse", "", "400001", National},
		{"empty customer", "400001", "", National},
		{"both empty", "", "", National},
		{"whitespace only", "   ", "400001", National},
		{"short pincode same first digit", "40", "41", Regional},
		{"short pincode different first digit", "40", "11", National},
		{"identical pincodes", "560034", "560034", Local},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.warehouse, tc.customer); got != tc.want {
				t.Fatalf("Classify(%q, %q) = %d, want %d", tc.warehouse, tc.customer, got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := Classify("400001", "411001")
	for i := 0; i < 100; i++ {
		if got := Classify("400001", "411001"); got != first {
			t.Fatalf("Classify changed result on repeat call: %d then %d", first, got)
		}
	}
}
