package db

import "testing"

func TestContainsFold(t *testing.T) {
	database := NewTestDB(t)

	tests := []struct {
		haystack, needle any
		want             int
	}{
		{"Ölfilter", "ölfilter", 1},
		{"STRASSE", "straße", 0},
		{"Große Schraube", "GROSSE", 0},
		{"Große Schraube", "große", 1},
		{"Widget", "dge", 1},
		{"Widget", "gadget", 0},
		{"50%_off", "%_", 1},
		{"50 off", "%", 0},
		{nil, "", 1},
		{nil, "x", 0},
	}

	for _, tt := range tests {
		var got int
		if err := database.QueryRow(`SELECT contains_fold(?, ?)`, tt.haystack, tt.needle).Scan(&got); err != nil {
			t.Fatalf("contains_fold(%v, %v): %v", tt.haystack, tt.needle, err)
		}
		if got != tt.want {
			t.Errorf("contains_fold(%v, %v) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
		}
	}
}
