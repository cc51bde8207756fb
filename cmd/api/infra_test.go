// AngelaMos | 2026
// infra_test.go

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cinecatalog/internal/config"
	"github.com/carterperez-dev/cinecatalog/internal/core"
)

func TestInfraAbort_ShutsDownTelemetry(t *testing.T) {
	tel, err := core.NewTelemetry(context.Background(),
		config.OtelConfig{ServiceName: "cinecatalog-test"},
		config.AppConfig{Version: "test"},
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cause := errors.New("connect to database: refused")

	i := &infra{telemetry: tel}
	got := i.abort(logger, cause)
	require.ErrorIs(t, got, cause)

	_, span := tel.TracerProvider.Tracer("after-abort").Start(context.Background(), "late")
	defer span.End()
	assert.False(t, span.IsRecording(), "tracer provider is shut down")
}
