package fieldtype

import "strconv"

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// FormatSize renders a byte count in 1024-based units with one decimal
// ("1.5 MB"). Counts under 1 KB are printed as whole bytes.
func FormatSize(n int64) string {
	if n < 1024 {
		if n < 0 {
			n = 0
		}
		return strconv.FormatInt(n, 10) + " B"
	}
	value := float64(n) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + sizeUnits[unit]
}
