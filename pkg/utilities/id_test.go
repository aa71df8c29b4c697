package utilities

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecordID(t *testing.T) {
	id := NewRecordID("p")
	assert.True(t, strings.HasPrefix(id, "p"))
	assert.Greater(t, len(id), 1)

	assert.NotEqual(t, NewRecordID("inv"), NewRecordID("inv"))
}

func TestNewInvoiceNumber(t *testing.T) {
	n := NewInvoiceNumber()
	_, err := strconv.ParseInt(n, 10, 64)
	assert.NoError(t, err)
}
