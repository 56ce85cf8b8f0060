package stringpool

import "testing"

func TestInternDeduplicates(t *testing.T) {
	tests := []struct {
		name string
		input []string
		want int // distinct id count expected
	}{
		{name: "all distinct", input: []string{"FRA", "MUC", "JFK"}, want: 3},
		{name: "repeats collapse", input: []string{"FRA", "FRA", "MUC", "FRA"}, want: 2},
		{name: "case sensitive", input: []string{"fra", "FRA"}, want: 2},
		{name: "whitespace sensitive", input: []string{"FRA", "FRA "}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			seen := map[ID]bool{}
			for _, s := range tt.input {
				seen[p.Intern(s)] = true
			}
			if len(seen) != tt.want {
				t.Fatalf("got %d distinct ids, want %d", len(seen), tt.want)
			}
			if p.Len() != tt.want {
				t.Fatalf("Len() = %d, want %d", p.Len(), tt.want)
			}
		})
	}
}

func TestInternStableAndOrdered(t *testing.T) {
	p := New()
	first := p.Intern("FRA")
	if first != 0 {
		t.Fatalf("first id = %d, want 0", first)
	}
	second := p.Intern("MUC")
	if second != 1 {
		t.Fatalf("second id = %d, want 1", second)
	}
	again := p.Intern("FRA")
	if again != first {
		t.Fatalf("repeated intern() returned %d, want %d", again, first)
	}
	if p.Resolve(first) != "FRA" || p.Resolve(second) != "MUC" {
		t.Fatalf("resolve mismatch")
	}
}
