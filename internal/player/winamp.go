package player

import (
	"strconv"
)

// FormatWinampVersion renders the IPC_GETVERSION value, whose hex digits
// read as the version with a dot after the first (0x5666 is "5.666")
func FormatWinampVersion(v uint32) string {
	digits := strconv.FormatUint(uint64(v), 16)
	if len(digits) < 2 {
		return digits
	}
	return digits[:1] + "." + digits[1:]
}
