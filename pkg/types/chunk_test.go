package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContent_Stable(t *testing.T) {
	h1 := HashContent("hello")
	h2 := HashContent("hello")
	h3 := HashContent("world")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, HashLen)
}

func TestChunkValidate(t *testing.T) {
	chunk := Chunk{
		ID:        "main.go:main:1",
		FilePath:  "main.go",
		StartLine: 1,
		EndLine:   5,
		Content:   "func main() {}",
	}
	assert.NoError(t, chunk.Validate())

	bad := chunk
	bad.StartLine = 7
	assert.Error(t, bad.Validate())

	empty := chunk
	empty.Content = ""
	assert.Error(t, empty.Validate())
}
