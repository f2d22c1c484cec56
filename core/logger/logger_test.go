package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		level   zapcore.Level
		wantErr bool
	}{
		{name: "debug console", cfg: Config{Level: "debug", Format: "console"}, level: zapcore.DebugLevel},
		{name: "info json", cfg: Config{Level: "info", Format: "json"}, level: zapcore.InfoLevel},
		{name: "warn", cfg: Config{Level: "warn"}, level: zapcore.WarnLevel},
		{name: "empty level", cfg: Config{}, level: zapcore.InfoLevel},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			assert.False(t, l.Core().Enabled(tt.level-1))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("without")
		c.Locals("ray_id", "abc")
		ForAccount(WithRayID(base, c), "entry1").Info("with")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, map[string]any{"ray_id": "abc", "account": "entry1"}, entries[1].ContextMap())
}
