package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrDefault(t *testing.T) {
	mock := NewMockLogger()
	assert.Same(t, mock, OrDefault(mock))
	assert.NotNil(t, OrDefault(nil))
}

func TestSetLogger_IgnoresNil(t *testing.T) {
	before := GetLogger()
	SetLogger(nil)
	assert.Same(t, before, GetLogger())
}

func TestSetAllLogLevels(t *testing.T) {
	original := logrus.GetLevel()
	t.Cleanup(func() { SetAllLogLevels(original) })

	SetAllLogLevels(logrus.WarnLevel)

	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	adapter, ok := GetLogger().(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.WarnLevel, adapter.logger.Level)
}
