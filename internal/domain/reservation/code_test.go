package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Regexp(t, `^[A-Z0-9]{6}$`, code)
		seen[code] = true
	}
	// 36^6 codes; 500 draws colliding more than a couple of times means the source is broken.
	assert.Greater(t, len(seen), 495)
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("AB12CD"))
	assert.False(t, ValidCode("ab12cd"))
	assert.False(t, ValidCode("AB12C"))
	assert.False(t, ValidCode("AB12CD7"))
	assert.Equal(t, "AB12CD", normalizeCode(" ab12cd "))
}
