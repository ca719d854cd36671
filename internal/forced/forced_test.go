package forced

import "testing"

func TestParse(t *testing.T) {
	r := Parse(map[int]string{
		40: "1,2",
		25: "2, 3",
		10: "12345",
		5:  "bogus,-4,,7",
	}, "999,1")

	tests := []struct {
		entry    uint32
		want     Override
		wantOK   bool
		disabled bool
	}{
		{12345, 10, true, false},
		{2, 25, true, false}, // later list wins
		{3, 25, true, false},
		{7, 5, true, false},
		{999, 0, true, true},
		{1, 0, true, true}, // disabled list loaded last
		{4, 0, false, false},
		{42, 0, false, false},
	}

	for _, tt := range tests {
		got, ok := r.Lookup(tt.entry)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Lookup(%d) = (%d, %v), want (%d, %v)", tt.entry, got, ok, tt.want, tt.wantOK)
		}
		if ok && got.Disabled() != tt.disabled {
			t.Errorf("Lookup(%d).Disabled() = %v, want %v", tt.entry, got.Disabled(), tt.disabled)
		}
	}

	if r.Len() != 6 {
		t.Errorf("Len = %d, want 6", r.Len())
	}
}

func TestLoadCountsValidIDs(t *testing.T) {
	r := New()
	if n := r.Load(" 10 , x, 20,", 5); n != 2 {
		t.Errorf("Load returned %d, want 2", n)
	}
	if n := r.Load("", 5); n != 0 {
		t.Errorf("Load of empty list returned %d, want 0", n)
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if _, ok := r.Lookup(1); ok {
		t.Error("nil registry should report not found")
	}
	if r.Len() != 0 {
		t.Error("nil registry should be empty")
	}
}
