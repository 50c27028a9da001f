package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ekycid/gateway/internal/apierror"
)

func TestMapStatusInvalidArgument(t *testing.T) {
	err := mapStatus(status.Error(codes.InvalidArgument, "ktp image content is required"))

	apiErr, ok := err.(apierror.APIError)
	require.True(t, ok)
	assert.Equal(t, apierror.ErrBadRequest, apiErr.Code)
	assert.Equal(t, "ktp image content is required", apiErr.Message)
}

func TestMapStatusOtherCodesAreInternal(t *testing.T) {
	for _, code := range []codes.Code{codes.Unavailable, codes.Internal, codes.DeadlineExceeded, codes.NotFound} {
		err := mapStatus(status.Error(code, "downstream detail"))

		apiErr, ok := err.(apierror.APIError)
		require.True(t, ok, "code %s", code)
		assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
		assert.NotContains(t, apiErr.Message, "downstream detail", "internal causes must stay out of client messages")
	}
}

func TestNormalizeTarget(t *testing.T) {
	assert.Equal(t, "ai-support:50052", normalizeTarget("http://ai-support:50052"))
	assert.Equal(t, "ai-support:50052", normalizeTarget("https://ai-support:50052/"))
	assert.Equal(t, "127.0.0.1:50052", normalizeTarget("127.0.0.1:50052"))
}

func TestNewGRPCProviderDialsLazily(t *testing.T) {
	provider, err := NewGRPCProvider("127.0.0.1:1")
	require.NoError(t, err, "connection should not be attempted at construction time")
	assert.Equal(t, "ai_support_grpc", provider.Name())
	require.NoError(t, provider.Close())
}
