package blobstore

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"go.uber.org/zap"

	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

const (
	DefaultContainer   = "audio-files"
	DefaultContentType = "audio/mpeg"
	DefaultSASExpiry   = 10 * 365 * 24 * time.Hour
)

var (
	accountNamePattern = regexp.MustCompile(`AccountName=([^;]+)`)
	accountKeyPattern  = regexp.MustCompile(`AccountKey=([^;]+)`)
)

// Config holds configuration for the Azure blob store
type Config struct {
	ConnectionString string
	Container        string
	SASExpiry        time.Duration
}

// AzureStore is a Store backed by Azure Blob Storage. The service client is
// created on first use, so a missing connection string only fails the calls
// that need storage.
type AzureStore struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time

	mu             sync.Mutex
	api            blobAPI
	containerReady bool
}

var _ Store = (*AzureStore)(nil)

// NewAzureStore creates a store. No network calls are made until first use.
func NewAzureStore(cfg Config, logger *zap.Logger) *AzureStore {
	if cfg.Container == "" {
		cfg.Container = DefaultContainer
	}
	if cfg.SASExpiry <= 0 {
		cfg.SASExpiry = DefaultSASExpiry
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AzureStore{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Configured reports whether a connection string is present
func (s *AzureStore) Configured() bool {
	return s.cfg.ConnectionString != ""
}

func (s *AzureStore) client() (blobAPI, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.api != nil {
		return s.api, nil
	}
	if s.cfg.ConnectionString == "" {
		return nil, apperrors.StorageNotConfigured()
	}

	api, err := newAzureAPI(s.cfg.ConnectionString)
	if err != nil {
		return nil, apperrors.InvalidCredentialFormat(err.Error()).WithCause(err)
	}
	s.api = api
	return s.api, nil
}

func (s *AzureStore) ensureContainer(ctx context.Context, api blobAPI) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.containerReady {
		return nil
	}
	if err := api.CreateContainer(ctx, s.cfg.Container); err != nil {
		return apperrors.UpstreamServiceError("blob storage", err).
			WithDetail("container", s.cfg.Container)
	}
	s.containerReady = true
	return nil
}

// Store uploads data, overwriting any object of the same name, and returns
// the blob URL with a read-only SAS token appended.
func (s *AzureStore) Store(ctx context.Context, data []byte, name, contentType string) (string, error) {
	api, err := s.client()
	if err != nil {
		return "", err
	}
	if err := s.ensureContainer(ctx, api); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = DefaultContentType
	}

	if err := api.Upload(ctx, s.cfg.Container, name, data, contentType); err != nil {
		return "", apperrors.UpstreamServiceError("blob storage", err).WithDetail("blob", name)
	}

	token, err := s.signRead(name)
	if err != nil {
		return "", err
	}

	s.logger.Debug("blob stored", zap.String("blob", name), zap.Int("size", len(data)))
	return fmt.Sprintf("%s?%s", api.BlobURL(s.cfg.Container, name), token), nil
}

// signRead builds a read-only blob SAS from the account credentials in the connection string
func (s *AzureStore) signRead(name string) (string, error) {
	accountName, accountKey, err := ParseAccountCredentials(s.cfg.ConnectionString)
	if err != nil {
		return "", err
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return "", apperrors.InvalidCredentialFormat("account key is not valid base64").WithCause(err)
	}

	now := s.now().UTC()
	params, err := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-5 * time.Minute),
		ExpiryTime:    now.Add(s.cfg.SASExpiry),
		Permissions:   (&sas.BlobPermissions{Read: true}).String(),
		ContainerName: s.cfg.Container,
		BlobName:      name,
	}.SignWithSharedKey(cred)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to sign blob URL")
	}

	return params.Encode(), nil
}

// Delete removes name. A missing blob is treated as already deleted.
func (s *AzureStore) Delete(ctx context.Context, name string) error {
	api, err := s.client()
	if err != nil {
		return err
	}
	if err := api.Delete(ctx, s.cfg.Container, name); err != nil {
		return apperrors.UpstreamServiceError("blob storage", err).WithDetail("blob", name)
	}
	return nil
}

// DeleteByPrefix deletes every blob under prefix. Individual failures are
// counted and logged, never fatal; only a failed listing is returned as an error.
func (s *AzureStore) DeleteByPrefix(ctx context.Context, prefix string) (DeleteResult, error) {
	var result DeleteResult

	api, err := s.client()
	if err != nil {
		return result, err
	}

	names, err := api.List(ctx, s.cfg.Container, prefix)
	if err != nil {
		return result, apperrors.UpstreamServiceError("blob storage", err).WithDetail("prefix", prefix)
	}

	for _, name := range names {
		if err := api.Delete(ctx, s.cfg.Container, name); err != nil {
			result.ErrorCount++
			s.logger.Warn("failed to delete blob", zap.String("blob", name), zap.Error(err))
			continue
		}
		result.DeletedCount++
	}

	s.logger.Info("deleted blobs by prefix",
		zap.String("prefix", prefix),
		zap.Int("deleted", result.DeletedCount),
		zap.Int("errors", result.ErrorCount))

	return result, nil
}

// ParseAccountCredentials extracts AccountName and AccountKey from a storage connection string
func ParseAccountCredentials(connectionString string) (string, string, error) {
	name := accountNamePattern.FindStringSubmatch(connectionString)
	key := accountKeyPattern.FindStringSubmatch(connectionString)
	if name == nil || key == nil {
		return "", "", apperrors.InvalidCredentialFormat("AccountName and AccountKey are required")
	}
	return name[1], key[1], nil
}
