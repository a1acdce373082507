package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/booger/pkg/types"
)

func TestShape_SignaturesFallsBackToFirstContentLineWhenNoSignature(t *testing.T) {
	results := []*types.SearchResult{
		{FilePath: "a.go", StartLine: 1, Signature: "", Content: "import \"fmt\"\nimport \"os\""},
	}
	out := Shape(results, "signatures", 0, 0, 0)
	assert.Equal(t, `a.go:1: import "fmt"`, out)
}

func TestShape_SignaturesUsesSignatureWhenPresent(t *testing.T) {
	results := []*types.SearchResult{
		{FilePath: "a.go", StartLine: 4, Signature: "func Widget()", Content: "func Widget() {}"},
	}
	out := Shape(results, "signatures", 0, 0, 0)
	assert.Equal(t, "a.go:4: func Widget()", out)
}
