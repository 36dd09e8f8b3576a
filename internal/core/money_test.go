package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"50000", 50000, false},
		{" 50000 ", 50000, false},
		{"50000.4", 50000, false},
		{"50000.5", 50001, false},
		{"12500,5", 12501, false},
		{"0.6", 1, false},
		{"", 0, true},
		{"0", 0, true},
		{"0.4", 0, true},
		{"-100", 0, true},
		{"+100", 0, true},
		{"abc", 0, true},
		{"12.34.56", 0, true},
		{"12a500", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAmount(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseOptionalAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"0", 0, false},
		{"0.0", 0, false},
		{"0,00", 0, false},
		{"0.4", 0, false},
		{"500000", 500000, false},
		{"12500,5", 12501, false},
		{"-100", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseOptionalAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseOptionalAmount(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseOptionalAmount(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseOptionalAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1500, "Rp 1.500"},
		{1500000, "Rp 1.500.000"},
		{-25000, "-Rp 25.000"},
	}
	for _, tc := range cases {
		if got := FormatRupiah(Money{tc.in}); got != tc.want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(date(2025, 1, 2)); got != "2 Jan 2025" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDate(date(2025, 5, 17)); got != "17 Mei 2025" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDate(Date{}); got != "-" {
		t.Fatalf("empty date: got %q", got)
	}
}
