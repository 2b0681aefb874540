package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	assert.NoError(t, Configure("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	assert.NoError(t, Configure(""))
	assert.Equal(t, log.InfoLevel, log.GetLevel())

	assert.Error(t, Configure("chatty"))
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
