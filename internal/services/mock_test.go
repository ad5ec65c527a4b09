package services

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknet/internal/validation"
)

type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) Get(ctx context.Context, path string, query url.Values, out any) error {
	return m.Called(path, query, out).Error(0)
}

func (m *mockRequester) Post(ctx context.Context, path string, body, out any) error {
	return m.Called(path, body, out).Error(0)
}

func (m *mockRequester) Patch(ctx context.Context, path string, body, out any) error {
	return m.Called(path, body, out).Error(0)
}

func (m *mockRequester) Delete(ctx context.Context, path string, out any) error {
	return m.Called(path, out).Error(0)
}

func (m *mockRequester) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return m.Called(path, field, filename, data, out).Error(0)
}

// respond decodes v into the out argument at position idx.
func respond(idx int, v any) func(mock.Arguments) {
	return func(args mock.Arguments) {
		data, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		if err := json.Unmarshal(data, args.Get(idx)); err != nil {
			panic(err)
		}
	}
}

// requireValidation asserts a validation failure with message and no
// backend traffic.
func requireValidation(t *testing.T, api *mockRequester, err error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, validation.IsValidationError(err), "expected validation error, got %T: %v", err, err)
	assert.Equal(t, message, err.Error())
	assert.Empty(t, api.Calls, "no backend call expected")
}

func ptr[T any](v T) *T {
	return &v
}

func pageQuery(limit, offset string) url.Values {
	return url.Values{"limit": {limit}, "offset": {offset}}
}
