package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldConstants(t *testing.T) {
	assert.Equal(t, "file_path", FieldFile)
	assert.Equal(t, "count", FieldCount)
	assert.Equal(t, "delimiter", FieldDelimiter)
	assert.Equal(t, "encoding", FieldEncoding)
	assert.Equal(t, "error", FieldError)
	assert.Equal(t, "category", FieldCategory)
	assert.Equal(t, "keyword", FieldKeyword)
	assert.Equal(t, "parser", FieldParser)
	assert.Equal(t, "transaction_id", FieldTransactionID)
	assert.Equal(t, "backup_file", FieldBackup)
}
