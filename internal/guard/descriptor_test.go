package guard

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRequest_Clone tests that request clones are fully independent.
func TestRequest_Clone(t *testing.T) {
	t.Parallel()

	original := &Request{
		ID:     "req-1",
		Method: http.MethodPost,
		URL:    "https://api.example.com/users?page=2",
		Header: http.Header{
			"Authorization": []string{"Bearer token"},
		},
		Body:      []byte(`{"name":"alice"}`),
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	cloned := original.Clone()
	require.NotNil(t, cloned)
	require.NotSame(t, original, cloned)

	assert.Equal(t, original.ID, cloned.ID)
	assert.Equal(t, original.Method, cloned.Method)
	assert.Equal(t, original.URL, cloned.URL)
	assert.Equal(t, original.Header, cloned.Header)
	assert.Equal(t, original.Body, cloned.Body)
	assert.Equal(t, original.CreatedAt, cloned.CreatedAt)

	// Mutating the clone must not leak into the original.
	cloned.Header.Set("Authorization", "Bearer other")
	cloned.Body[0] = 'X'

	assert.Equal(t, "Bearer token", original.Header.Get("Authorization"))
	assert.Equal(t, byte('{'), original.Body[0])
}

// TestRequest_Clone_Nil tests cloning edge cases.
func TestRequest_Clone_Nil(t *testing.T) {
	t.Parallel()

	var request *Request

	assert.Nil(t, request.Clone())

	empty := &Request{}
	cloned := empty.Clone()

	require.NotNil(t, cloned)
	assert.Nil(t, cloned.Header)
	assert.Nil(t, cloned.Body)
}

// TestResponse_Clone tests that response clones are fully independent.
func TestResponse_Clone(t *testing.T) {
	t.Parallel()

	original := &Response{
		Status:     http.StatusOK,
		StatusText: "OK",
		Header: http.Header{
			"Content-Type": []string{"application/json"},
		},
		Body:   []byte(`{"id":1}`),
		Source: SourceNetwork,
	}

	cloned := original.Clone()
	require.NotNil(t, cloned)
	require.NotSame(t, original, cloned)

	assert.Equal(t, original.Status, cloned.Status)
	assert.Equal(t, original.StatusText, cloned.StatusText)
	assert.Equal(t, original.Header, cloned.Header)
	assert.Equal(t, original.Body, cloned.Body)
	assert.Equal(t, original.Source, cloned.Source)

	cloned.Header.Set("Content-Type", "text/plain")
	cloned.Body[0] = 'X'

	assert.Equal(t, "application/json", original.Header.Get("Content-Type"))
	assert.Equal(t, byte('{'), original.Body[0])
}

// TestSource_String tests the Source enum.
func TestSource_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "network", SourceNetwork.String())
	assert.Equal(t, "cache", SourceCache.String())
	assert.Equal(t, "mock", SourceMock.String())
}
