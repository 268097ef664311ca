package auth

import (
	"context"
	"crypto/rsa"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrNoToken       = errors.New("no token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrNotConfigured = errors.New("identity verification is not configured")
	ErrJWKSFetch     = errors.New("failed to fetch JWKS")
)

const (
	// DefaultJWKSURL publishes the keys that sign Firebase ID tokens
	DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	// DefaultRefreshCooldown bounds refetches triggered by unknown key ids
	DefaultRefreshCooldown = time.Minute

	issuerPrefix = "https://securetoken.google.com/"
)

// Claims represents the claims of a Firebase ID token
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	UserID  string `json:"user_id"`

	jwt.RegisteredClaims
}

// User is the verified identity attached to a request
type User struct {
	UID     string `json:"uid"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Verifier checks bearer tokens
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// JWK represents an RSA JSON Web Key
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Config holds identity verification settings
type Config struct {
	ProjectID  string
	JWKSURL    string
	CacheTTL   time.Duration
	DevEnabled bool
	DevToken   string
	HTTPClient *http.Client

	// RefreshCooldown is the minimum time between two key fetches
	RefreshCooldown time.Duration
}

// Service verifies Firebase ID tokens against Google's published keys.
// Keys are fetched on first use and cached. A miss or an expired cache
// triggers a refetch, at most once per refresh cooldown.
type Service struct {
	projectID       string
	jwksURL         string
	httpClient      *http.Client
	keys            map[string]*rsa.PublicKey
	keysMutex       sync.RWMutex
	lastFetch       time.Time
	cacheDuration   time.Duration
	refreshMutex    sync.Mutex
	lastAttempt     time.Time
	refreshCooldown time.Duration
	devEnabled      bool
	devToken        string
	logger          *zap.Logger
	now             func() time.Time
}

var _ Verifier = (*Service)(nil)

// NewService creates a new token verifier
func NewService(cfg Config, logger *zap.Logger) *Service {
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = DefaultJWKSURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.RefreshCooldown <= 0 {
		cfg.RefreshCooldown = DefaultRefreshCooldown
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		projectID:       cfg.ProjectID,
		jwksURL:         cfg.JWKSURL,
		httpClient:      cfg.HTTPClient,
		keys:            make(map[string]*rsa.PublicKey),
		cacheDuration:   cfg.CacheTTL,
		refreshCooldown: cfg.RefreshCooldown,
		devEnabled:      cfg.DevEnabled,
		devToken:        cfg.DevToken,
		logger:          logger,
		now:             time.Now,
	}
}

// fetchJWKS fetches and parses the JWKS from the URL
func (s *Service) fetchJWKS(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJWKSFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrJWKSFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: decoding: %v", ErrJWKSFetch, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		if jwk.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAKey(jwk)
		if err != nil {
			s.logger.Warn("skipping invalid JWK", zap.String("kid", jwk.Kid), zap.Error(err))
			continue
		}
		keys[jwk.Kid] = pubKey
	}

	s.keysMutex.Lock()
	s.keys = keys
	s.lastFetch = s.now()
	s.keysMutex.Unlock()

	return nil
}

// parseRSAKey converts a JWK to an RSA public key
func parseRSAKey(jwk JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 1 {
		return nil, fmt.Errorf("invalid exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}

// getPublicKey retrieves a public key by kid, refreshing JWKS if necessary
func (s *Service) getPublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.keysMutex.RLock()
	key, exists := s.keys[kid]
	shouldRefresh := s.now().Sub(s.lastFetch) > s.cacheDuration
	s.keysMutex.RUnlock()

	if (!exists || shouldRefresh) && s.claimRefresh() {
		if err := s.fetchJWKS(ctx); err != nil {
			return nil, err
		}

		s.keysMutex.RLock()
		key, exists = s.keys[kid]
		s.keysMutex.RUnlock()
	}

	if !exists {
		return nil, fmt.Errorf("key with id %s not found", kid)
	}

	return key, nil
}

// claimRefresh reports whether a key fetch may start now and records the attempt
func (s *Service) claimRefresh() bool {
	s.refreshMutex.Lock()
	defer s.refreshMutex.Unlock()

	now := s.now()
	if !s.lastAttempt.IsZero() && now.Sub(s.lastAttempt) < s.refreshCooldown {
		s.logger.Debug("JWKS refresh skipped during cooldown")
		return false
	}
	s.lastAttempt = now
	return true
}

// Verify validates a Firebase ID token and returns the user it identifies
func (s *Service) Verify(ctx context.Context, tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}

	if s.devEnabled && s.devToken != "" &&
		subtle.ConstantTimeCompare([]byte(tokenString), []byte(s.devToken)) == 1 {
		return DevUser(), nil
	}

	if s.projectID == "" {
		return nil, ErrNotConfigured
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("no kid found in token header")
		}
		return s.getPublicKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(s.projectID),
		jwt.WithIssuer(issuerPrefix+s.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		s.logger.Debug("token verification failed", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &User{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// DevUser returns the fixed identity accepted in development mode
func DevUser() *User {
	return &User{
		UID:   "dev-user-001",
		Email: "dev@fraza.local",
		Name:  "Dev User",
	}
}
