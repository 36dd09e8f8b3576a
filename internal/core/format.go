package core

import (
	"fmt"
	"strconv"
)

var indonesianMonths = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// FormatRupiah formats an amount as an Indonesian currency string with
// dot thousand separators, e.g. "Rp 1.500.000" or "-Rp 25.000".
func FormatRupiah(m Money) string {
	v := m.Rupiah
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var grouped []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, c)
	}
	if neg {
		return "-Rp " + string(grouped)
	}
	return "Rp " + string(grouped)
}

// FormatDate renders a date as "2 Jan 2025" with Indonesian month
// abbreviations. Empty dates render as "-".
func FormatDate(d Date) string {
	if d.IsEmpty() {
		return "-"
	}
	return fmt.Sprintf("%d %s %d", d.Day(), indonesianMonths[int(d.Month())-1], d.Year())
}
