package hash

import (
	"strconv"
	"unicode/utf16"
)

// PathHash computes the sync API's path hash: a 32-bit rolling hash over
// the UTF-16 code units of the path, printed as a signed decimal.
func PathHash(path string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(path)) {
		h = (h << 5) - h + int32(unit)
	}
	return strconv.FormatInt(int64(h), 10)
}
