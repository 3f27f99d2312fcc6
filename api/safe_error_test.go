package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikeValue(t *testing.T) {
	assert.Equal(t, "plain", escapeLikeValue("plain"))
	assert.Equal(t, `100\%`, escapeLikeValue("100%"))
	assert.Equal(t, `a\_b`, escapeLikeValue("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLikeValue(`c:\dir`))
}
