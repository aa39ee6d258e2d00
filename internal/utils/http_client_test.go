package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient()

	require.NotNil(t, client)
	require.NotNil(t, client.Client)
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient()
	client2 := NewHTTPClient()

	assert.NotSame(t, client1.Client, client2.Client)
}

func TestNewHTTPClient_Options(t *testing.T) {
	client := NewHTTPClient(WithBaseURL("https://gmail.test"), WithTimeout(5*time.Second))

	assert.Equal(t, "https://gmail.test", client.BaseURL)
	assert.Equal(t, 5*time.Second, client.GetClient().Timeout)
	assert.Equal(t, "application/json", client.Header.Get("Accept"))
}

func TestNewHTTPClient_EmptyOptionsIgnored(t *testing.T) {
	client := NewHTTPClient(WithBaseURL(""), WithTimeout(0))

	assert.Empty(t, client.BaseURL)
}
