package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKind_Valid(t *testing.T) {
	assert.True(t, KindConnectComplete.Valid())
	assert.True(t, KindEditComplete.Valid())
	assert.True(t, KindConnectError.Valid())
	assert.True(t, KindConnectCancelled.Valid())
	assert.False(t, EnvelopeKind("vectorize-something-else").Valid())
}

func TestEnvelopeKind_Completed(t *testing.T) {
	assert.True(t, KindConnectComplete.Completed())
	assert.True(t, KindEditComplete.Completed())
	assert.False(t, KindConnectError.Completed())
	assert.False(t, KindConnectCancelled.Completed())
}

func TestEnvelope_JSONShape(t *testing.T) {
	env := Envelope{
		Kind:      KindConnectComplete,
		AttemptID: "attempt-1",
		Selection: &Selection{
			Provider:     ProviderDropbox,
			Files:        []SelectedFile{{ID: "id:abc", Name: "report.pdf"}},
			RefreshToken: "rt",
		},
	}

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.Kind, decoded.Kind)
	assert.Equal(t, env.AttemptID, decoded.AttemptID)
	require.NotNil(t, decoded.Selection)
	assert.Equal(t, "id:abc", decoded.Selection.Files[0].ID)
	assert.Nil(t, decoded.Error)
}

func TestNewErrorEnvelope_RoundTrip(t *testing.T) {
	src := NewTokenError("refresh failed", nil).WithDetail("status", 401)
	env := NewErrorEnvelope("attempt-2", src)

	assert.Equal(t, KindConnectError, env.Kind)
	require.NotNil(t, env.Error)

	rebuilt := env.Error.AsConnectError()
	require.NotNil(t, rebuilt)
	assert.Equal(t, CodeToken, rebuilt.Code)
	assert.Equal(t, "refresh failed", rebuilt.Message)
	assert.Equal(t, 401, rebuilt.Details["status"])
}

func TestNewErrorEnvelope_CancelledKind(t *testing.T) {
	env := NewErrorEnvelope("attempt-3", NewCancelledError("user closed the popup"))
	assert.Equal(t, KindConnectCancelled, env.Kind)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeCancelled, env.Error.Code)
}

func TestEnvelopeError_AsConnectError_Defaults(t *testing.T) {
	var nilErr *EnvelopeError
	assert.Nil(t, nilErr.AsConnectError())

	rebuilt := (&EnvelopeError{Message: "mystery"}).AsConnectError()
	require.NotNil(t, rebuilt)
	assert.Equal(t, CodeUnknown, rebuilt.Code)
}
