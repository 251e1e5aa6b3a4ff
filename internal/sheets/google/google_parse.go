package google

import (
	"fmt"
	"strings"
)

// firstColumn flattens a single-column values matrix; blank cells become "".
func firstColumn(values [][]any) []string {
	out := make([]string, len(values))
	for i, row := range values {
		if len(row) > 0 {
			out[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if v == target {
			return i
		}
	}
	return -1
}

func headerRow(h []string) []any {
	out := make([]any, len(h))
	for i, v := range h {
		out[i] = v
	}
	return out
}

// column converts a 1-based column number to its A1 letter(s).
func column(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

func rowRef(sheet string, row, width int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, row, column(width), row)
}
