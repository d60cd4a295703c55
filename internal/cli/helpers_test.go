package cli

import "testing"

func TestParseRetrySelection(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		total   int
		all     bool
		cancel  bool
		indices []int
		wantErr bool
	}{
		{name: "all", raw: "a", total: 3, all: true},
		{name: "all uppercase", raw: " A ", total: 3, all: true},
		{name: "cancel", raw: "c", total: 3, cancel: true},
		{name: "empty cancels", raw: "", total: 3, cancel: true},
		{name: "single index", raw: "2", total: 3, indices: []int{2}},
		{name: "comma list", raw: "1,3", total: 3, indices: []int{1, 3}},
		{name: "spaces tolerated", raw: " 1 , 3 ", total: 3, indices: []int{1, 3}},
		{name: "trailing comma", raw: "2,", total: 3, indices: []int{2}},
		{name: "junk", raw: "abc", total: 3, wantErr: true},
		{name: "mixed junk", raw: "1,x", total: 3, wantErr: true},
		{name: "zero out of range", raw: "0", total: 3, wantErr: true},
		{name: "past end", raw: "4", total: 3, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			choice, err := parseRetrySelection(tc.raw, tc.total)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", choice)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if choice.all != tc.all || choice.cancel != tc.cancel {
				t.Fatalf("got %+v", choice)
			}
			if len(choice.indices) != len(tc.indices) {
				t.Fatalf("indices = %v, want %v", choice.indices, tc.indices)
			}
			for i, n := range tc.indices {
				if choice.indices[i] != n {
					t.Fatalf("indices = %v, want %v", choice.indices, tc.indices)
				}
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("hello", 10); got != "hello" {
		t.Fatalf("got %q", got)
	}
	if got := truncateRunes("hello world", 6); got != "hello…" {
		t.Fatalf("got %q", got)
	}
	if got := truncateRunes("hello", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
