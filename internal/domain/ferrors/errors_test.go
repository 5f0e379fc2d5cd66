package ferrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abw750/ferryAPI3/internal/domain/ferrors"
)

func TestUnknownRouteError_CarriesRouteID(t *testing.T) {
	err := ferrors.NewUnknownRouteError(42)
	assert.Equal(t, 42, err.RouteID)
	assert.Contains(t, err.Error(), "42")
}

func TestUpstreamTransientError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := ferrors.NewUpstreamTransientError("vessels", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "vessels")
}

func TestUpstreamPermanentError_Unwraps(t *testing.T) {
	cause := errors.New("bad request")
	err := ferrors.NewUpstreamPermanentError("schedule", cause)

	assert.ErrorIs(t, err, cause)
}

func TestConfigurationError_IsDistinguishableViaErrorsAs(t *testing.T) {
	err := error(ferrors.NewConfigurationError("missing access code"))

	var cfgErr *ferrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "missing access code", cfgErr.Error())
}
