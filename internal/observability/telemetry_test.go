package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitWithExporter(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	shutdown, err := InitWithExporter(context.Background(), "footsteps-test", exp)
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	_, span := Tracer().Start(context.Background(), "reload")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "reload", spans[0].Name)
}
