package css

import "testing"

func TestRestoreAttrSpacing(t *testing.T) {
	pairs := attrPairs(`a[x] .b{} c[y].d{} e[z]  #f{}`)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %v", pairs)
	}

	got := restoreAttrSpacing(`a[x].b{}c[y].d{}e[z]#f{}`, pairs)
	want := `a[x] .b{}c[y].d{}e[z] #f{}`
	if got != want {
		t.Errorf("restoreAttrSpacing = %q, want %q", got, want)
	}

	if got := restoreAttrSpacing("a[x].b{}", nil); got != "a[x].b{}" {
		t.Errorf("nil pairs changed text: %q", got)
	}
}

func TestTrim(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{" \t a b \n", "a b"},
		{"\uFEFF\u00A0a\u3000", "a"},
		{"\u0085a\u0085", "\u0085a\u0085"},
	}
	for _, tt := range tests {
		if got := trim(tt.in); got != tt.want {
			t.Errorf("trim(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{1.5, "1.5"},
		{0.03125, "0.031"},
		{0.0625, "0.063"},
		{-0.0625, "-0.063"},
		{0.3125, "0.313"},
		{0.0005, "0.001"},
		{123456.5, "123456.5"},
		{-0.0001, "0"},
		{1.0005, "1"},
		{-12.25, "-12.25"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
