//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParseResult(t *testing.T) {
	r := NewParseResult("héllo", 0, nil)
	assert.Equal(t, 1, r.PageCount)
	assert.Equal(t, 5, r.CharacterCount)
	assert.NotNil(t, r.Warnings)

	r = NewParseResult("", 3, []string{"w"})
	assert.Equal(t, 3, r.PageCount)
	assert.Equal(t, 0, r.CharacterCount)
	assert.Equal(t, []string{"w"}, r.Warnings)
}
