package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestShort(t *testing.T) {
	s := Short()
	assert.True(t, strings.HasPrefix(s, "blackjack "))
	assert.Contains(t, s, Info().Version)
}
