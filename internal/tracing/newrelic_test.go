package tracing

import (
	"testing"

	"example.com/galleria/services/exhibition/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerWithoutLicenseKey(t *testing.T) {
	tracer, err := NewTracer(config.TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	txn := tracer.StartTransaction("boot")
	assert.Nil(t, txn)
	tracer.EndTransaction(txn)
	tracer.Close()
}

func TestNewTracerAgentErrorStillUsable(t *testing.T) {
	// Malformed license keys fail agent construction synchronously
	tracer, err := NewTracer(config.TracingConfig{
		AppName:    "exhibition-test",
		LicenseKey: "not-a-valid-license-key",
	})
	require.Error(t, err)
	require.NotNil(t, tracer)

	// Every call on the fallback tracer must be a safe no-op
	txn := tracer.StartTransaction("boot")
	assert.Nil(t, txn)
	tracer.RecordError(txn, errors.New("boom"))
	tracer.AddAttribute(txn, "key", "value")
	tracer.EndTransaction(txn)
	tracer.Close()
}
