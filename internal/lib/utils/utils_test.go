package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n\t\"a\": 1\n}\n", buf.String())
}

func TestPrintJSONUnsupportedValue(t *testing.T) {
	var buf bytes.Buffer
	err := PrintJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
