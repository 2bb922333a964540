package requisition

import (
	"fmt"
	"strconv"
)

// numberWidth is the zero-padded width of requisition numbers ("00001").
// Numbers keep counting past 99999; they just stop being padded.
const numberWidth = 5

// NextNumber computes the successor of the highest number issued so far for
// a tenant. currentMax is the stored MAX(requisition_number), empty when the
// tenant has no requisitions yet. Unparsable input restarts the sequence at
// 1 rather than failing the create.
func NextNumber(currentMax string) string {
	n := 0
	if currentMax != "" {
		if parsed, err := strconv.Atoi(currentMax); err == nil {
			n = parsed
		}
	}
	return FormatNumber(n + 1)
}

func FormatNumber(n int) string {
	return fmt.Sprintf("%0*d", numberWidth, n)
}
