package requisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextNumberFirstAllocation(t *testing.T) {
	assert.Equal(t, "00001", NextNumber(""))
}

func TestNextNumberIncrements(t *testing.T) {
	assert.Equal(t, "00008", NextNumber("00007"))
	assert.Equal(t, "00100", NextNumber("00099"))
}

func TestNextNumberUnparsableRestartsAtOne(t *testing.T) {
	assert.Equal(t, "00001", NextNumber("REQ-7"))
}

func TestNextNumberBeyondPaddingWidth(t *testing.T) {
	assert.Equal(t, "100000", NextNumber("99999"))
	assert.Equal(t, "100001", NextNumber("100000"))
}

// The numeric MAX cast in the allocator returns unpadded text ("7", not
// "00007"); padding is restored on format.
func TestNextNumberUnpaddedInput(t *testing.T) {
	assert.Equal(t, "00008", NextNumber("7"))
}
