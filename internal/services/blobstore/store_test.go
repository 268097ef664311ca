package blobstore

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

type fakeAPI struct {
	mu         sync.Mutex
	containers []string
	blobs      map[string][]byte
	types      map[string]string
	failDelete map[string]bool
	listErr    error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		blobs:      map[string][]byte{},
		types:      map[string]string{},
		failDelete: map[string]bool{},
	}
}

func (f *fakeAPI) CreateContainer(_ context.Context, container string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containers = append(f.containers, container)
	return nil
}

func (f *fakeAPI) Upload(_ context.Context, _, name string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[name] = data
	f.types[name] = contentType
	return nil
}

func (f *fakeAPI) Delete(_ context.Context, _, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[name] {
		return errors.New("boom")
	}
	delete(f.blobs, name)
	return nil
}

func (f *fakeAPI) List(_ context.Context, _, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var names []string
	for name := range f.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (f *fakeAPI) BlobURL(container, name string) string {
	return "https://devaccount.blob.core.windows.net/" + container + "/" + name
}

func testConnectionString() string {
	key := base64.StdEncoding.EncodeToString([]byte("super-secret-account-key"))
	return "DefaultEndpointsProtocol=https;AccountName=devaccount;AccountKey=" + key + ";EndpointSuffix=core.windows.net"
}

func newTestStore(api *fakeAPI) *AzureStore {
	s := NewAzureStore(Config{ConnectionString: testConnectionString()}, zap.NewNop())
	s.api = api
	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestAzureStore_Store(t *testing.T) {
	api := newFakeAPI()
	s := newTestStore(api)

	signed, err := s.Store(context.Background(), []byte("mp3"), "u1/script_1/chunk_1_native.mp3", "")
	require.NoError(t, err)

	assert.Equal(t, []byte("mp3"), api.blobs["u1/script_1/chunk_1_native.mp3"])
	assert.Equal(t, "audio/mpeg", api.types["u1/script_1/chunk_1_native.mp3"])
	assert.Equal(t, []string{"audio-files"}, api.containers)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "/audio-files/u1/script_1/chunk_1_native.mp3", u.Path)
	q := u.Query()
	assert.Equal(t, "r", q.Get("sp"))
	assert.Equal(t, "https", q.Get("spr"))
	assert.NotEmpty(t, q.Get("sig"))
	expiry, err := time.Parse(time.RFC3339, q.Get("se"))
	require.NoError(t, err)
	assert.Equal(t, 2034, expiry.Year())

	// Container creation happens once
	_, err = s.Store(context.Background(), []byte("mp3"), "u1/script_1/chunk_1_learning.mp3", "audio/wav")
	require.NoError(t, err)
	assert.Len(t, api.containers, 1)
	assert.Equal(t, "audio/wav", api.types["u1/script_1/chunk_1_learning.mp3"])
}

func TestAzureStore_NotConfigured(t *testing.T) {
	s := NewAzureStore(Config{}, nil)
	assert.False(t, s.Configured())

	_, err := s.Store(context.Background(), []byte("x"), "a.mp3", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorageNotConfigured))

	err = s.Delete(context.Background(), "a.mp3")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorageNotConfigured))

	_, err = s.DeleteByPrefix(context.Background(), "u1/")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorageNotConfigured))
}

func TestAzureStore_InvalidCredentials(t *testing.T) {
	api := newFakeAPI()
	s := NewAzureStore(Config{ConnectionString: "BlobEndpoint=https://x.blob.core.windows.net"}, nil)
	s.api = api

	_, err := s.Store(context.Background(), []byte("x"), "a.mp3", "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidCredentialFormat))
}

func TestAzureStore_DeleteIsIdempotent(t *testing.T) {
	api := newFakeAPI()
	s := newTestStore(api)
	api.blobs["a.mp3"] = []byte("x")

	require.NoError(t, s.Delete(context.Background(), "a.mp3"))
	require.NoError(t, s.Delete(context.Background(), "a.mp3"))
	assert.Empty(t, api.blobs)
}

func TestAzureStore_DeleteByPrefix(t *testing.T) {
	api := newFakeAPI()
	s := newTestStore(api)
	api.blobs["u1/script_1/chunk_1_native.mp3"] = nil
	api.blobs["u1/script_1/chunk_1_learning.mp3"] = nil
	api.blobs["u1/script_1/chunk_2_native.mp3"] = nil
	api.blobs["u1/script_2/chunk_1_native.mp3"] = nil
	api.failDelete["u1/script_1/chunk_2_native.mp3"] = true

	result, err := s.DeleteByPrefix(context.Background(), "u1/script_1/")
	require.NoError(t, err)
	assert.Equal(t, DeleteResult{DeletedCount: 2, ErrorCount: 1}, result)
	assert.Contains(t, api.blobs, "u1/script_2/chunk_1_native.mp3")
	assert.Contains(t, api.blobs, "u1/script_1/chunk_2_native.mp3")

	api.listErr = errors.New("listing failed")
	_, err = s.DeleteByPrefix(context.Background(), "u1/")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamService))
}

func TestParseAccountCredentials(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantKey  string
		wantErr  bool
	}{
		{
			name:     "full connection string",
			input:    "DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=abc==;EndpointSuffix=core.windows.net",
			wantName: "acct",
			wantKey:  "abc==",
		},
		{
			name:     "key last",
			input:    "AccountName=acct;AccountKey=xyz",
			wantName: "acct",
			wantKey:  "xyz",
		},
		{name: "missing key", input: "AccountName=acct", wantErr: true},
		{name: "missing name", input: "AccountKey=xyz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, key, err := ParseAccountCredentials(tt.input)
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidCredentialFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
