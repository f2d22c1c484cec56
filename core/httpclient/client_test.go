package httpclient_test

import (
	"testing"
	"time"

	"loan-sync/core/httpclient"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("DefaultTimeout", func(t *testing.T) {
		c := httpclient.New(httpclient.Config{})
		assert.Equal(t, 30*time.Second, c.Timeout)
		assert.NotNil(t, c.Jar)
	})

	t.Run("CustomTimeout", func(t *testing.T) {
		c := httpclient.New(httpclient.Config{TimeoutSeconds: 5})
		assert.Equal(t, 5*time.Second, c.Timeout)
	})
}
