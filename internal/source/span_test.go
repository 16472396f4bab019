package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cross-file Cover changed span: %v", got)
	}
}

func TestSpanOverlapsAndContains(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Span
		overlaps   bool
		aContainsB bool
	}{
		{"disjoint", Span{0, 0, 3}, Span{0, 3, 5}, false, false},
		{"nested", Span{0, 0, 10}, Span{0, 2, 4}, true, true},
		{"partial", Span{0, 0, 5}, Span{0, 4, 8}, true, false},
		{"empty", Span{0, 2, 2}, Span{0, 0, 5}, false, false},
		{"other file", Span{0, 0, 5}, Span{1, 0, 5}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
			if got := tt.a.Contains(tt.b); got != tt.aContainsB {
				t.Errorf("Contains = %v, want %v", got, tt.aContainsB)
			}
		})
	}
}
