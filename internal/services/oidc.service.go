package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"recondo/config"
	"recondo/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// OIDCDiscovery represents the provider's discovery document.
type OIDCDiscovery struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKS_URI              string `json:"jwks_uri"`
	RevocationEndpoint    string `json:"revocation_endpoint"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// TokenInfo carries the validated identity claims handed to the auth layer.
type TokenInfo struct {
	UserID        string   `json:"userId"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	GivenName     string   `json:"givenName"`
	FamilyName    string   `json:"familyName"`
	PreferredName string   `json:"preferredName"`
	EmailVerified bool     `json:"emailVerified"`
	Roles         []string `json:"roles"`
	Nonce         string   `json:"nonce"`
	Valid         bool     `json:"valid"`
}

type TokenExchangeRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	State        string `json:"state,omitempty"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

type TokenExchangeResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	IDToken      string `json:"id_token,omitempty"`
}

// OIDCService validates hosted-auth ID tokens and drives the PKCE code flow.
// Discovery and JWKS responses are cached in-process.
type OIDCService struct {
	log        logger.Logger
	httpClient *http.Client
	issuer     string
	clientID   string

	discovery     *OIDCDiscovery
	jwks          *JWKSet
	discoveryMux  sync.RWMutex
	jwksMux       sync.RWMutex
	discoveryTime time.Time
	jwksTime      time.Time
	cacheTTL      time.Duration
}

func NewOIDCService(cfg config.Config) (*OIDCService, error) {
	log := logger.New("OIDCService")

	if cfg.OIDCIssuerURL == "" || cfg.OIDCClientID == "" {
		return nil, log.ErrMsg("OIDC configuration required: missing OIDC_ISSUER_URL or OIDC_CLIENT_ID")
	}

	service := &OIDCService{
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		issuer:   cfg.OIDCIssuerURL,
		clientID: cfg.OIDCClientID,
		cacheTTL: 15 * time.Minute,
	}

	log.Info("OIDC service initialized", "issuer", cfg.OIDCIssuerURL)
	return service, nil
}

func (s *OIDCService) IsConfigured() bool {
	return s != nil && s.issuer != "" && s.clientID != ""
}

// OIDCConfig is the client-facing slice of the provider configuration.
type OIDCConfig struct {
	IssuerURL string `json:"issuerUrl"`
	ClientID  string `json:"clientId"`
}

func (s *OIDCService) GetConfig() OIDCConfig {
	return OIDCConfig{
		IssuerURL: s.issuer,
		ClientID:  s.clientID,
	}
}

// GetAuthorizationURL builds the provider's authorization URL for the PKCE
// login flow. Returns "" when discovery fails.
func (s *OIDCService) GetAuthorizationURL(state, redirectURI, codeChallenge, nonce string) string {
	log := s.log.Function("GetAuthorizationURL")

	discovery, err := s.getOIDCDiscovery(context.Background())
	if err != nil {
		log.Warn("discovery failed while building authorization URL", "error", err)
		return ""
	}

	authURL, err := url.Parse(discovery.AuthorizationEndpoint)
	if err != nil {
		log.Warn("invalid authorization endpoint", "error", err)
		return ""
	}

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("response_type", "code")
	params.Set("scope", "openid profile email")
	params.Set("redirect_uri", redirectURI)
	if state != "" {
		params.Set("state", state)
	}
	if nonce != "" {
		params.Set("nonce", nonce)
	}
	if codeChallenge != "" {
		params.Set("code_challenge", codeChallenge)
		params.Set("code_challenge_method", "S256")
	}

	authURL.RawQuery = params.Encode()
	return authURL.String()
}

// ExchangeCodeForToken swaps an authorization code for tokens at the
// provider's token endpoint.
func (s *OIDCService) ExchangeCodeForToken(
	ctx context.Context,
	req TokenExchangeRequest,
) (*TokenExchangeResponse, error) {
	log := s.log.TraceFromContext(ctx).Function("ExchangeCodeForToken")

	discovery, err := s.getOIDCDiscovery(ctx)
	if err != nil {
		return nil, log.Err("failed to get discovery for token exchange", err)
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", req.Code)
	data.Set("redirect_uri", req.RedirectURI)
	data.Set("client_id", s.clientID)
	if req.CodeVerifier != "" {
		data.Set("code_verifier", req.CodeVerifier)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		discovery.TokenEndpoint,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, log.Err("failed to create token request", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, log.Err("token request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close token response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, log.ErrMsg("token endpoint returned " + resp.Status + ": " + string(body))
	}

	var tokenResp TokenExchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, log.Err("failed to decode token response", err)
	}

	return &tokenResp, nil
}

// ValidateIDToken verifies the ID token's signature against the provider's
// JWKS and checks issuer and audience before handing back the claims.
func (s *OIDCService) ValidateIDToken(ctx context.Context, idToken string) (*TokenInfo, error) {
	log := s.log.TraceFromContext(ctx).Function("ValidateIDToken")

	var customClaims struct {
		jwt.RegisteredClaims
		Email         string   `json:"email"`
		Name          string   `json:"name"`
		GivenName     string   `json:"given_name"`
		FamilyName    string   `json:"family_name"`
		PreferredName string   `json:"preferred_username"`
		EmailVerified bool     `json:"email_verified"`
		Nonce         string   `json:"nonce"`
		Roles         []string `json:"roles"`
	}

	token, err := jwt.ParseWithClaims(
		idToken,
		&customClaims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, log.ErrMsg(
					"unexpected signing method: " + fmt.Sprintf("%v", token.Header["alg"]),
				)
			}

			kidHeader, ok := token.Header["kid"].(string)
			if !ok {
				return nil, log.ErrMsg("missing or invalid 'kid' in JWT header")
			}

			publicKey, err := s.getPublicKeyForToken(ctx, kidHeader)
			if err != nil {
				return nil, log.Err("failed to get public key", err)
			}
			return publicKey, nil
		},
	)
	if err != nil {
		return &TokenInfo{Valid: false}, log.Err("JWT signature verification failed", err)
	}
	if !token.Valid {
		return &TokenInfo{Valid: false}, log.ErrMsg("JWT token is invalid")
	}

	expectedIssuer := strings.TrimSuffix(s.issuer, "/")
	if customClaims.Issuer != expectedIssuer {
		return &TokenInfo{Valid: false}, log.ErrMsg(
			"invalid issuer: expected " + expectedIssuer + ", got " + customClaims.Issuer,
		)
	}

	if !slices.Contains(customClaims.Audience, s.clientID) {
		return &TokenInfo{Valid: false}, log.ErrMsg(
			"invalid audience: client ID " + s.clientID + " not in " + fmt.Sprintf("%v", customClaims.Audience),
		)
	}

	displayName := customClaims.Name
	if displayName == "" && (customClaims.GivenName != "" || customClaims.FamilyName != "") {
		displayName = strings.TrimSpace(customClaims.GivenName + " " + customClaims.FamilyName)
	}

	return &TokenInfo{
		UserID:        customClaims.Subject,
		Email:         customClaims.Email,
		Name:          displayName,
		GivenName:     customClaims.GivenName,
		FamilyName:    customClaims.FamilyName,
		PreferredName: customClaims.PreferredName,
		EmailVerified: customClaims.EmailVerified,
		Roles:         customClaims.Roles,
		Nonce:         customClaims.Nonce,
		Valid:         true,
	}, nil
}

// RevokeToken revokes an access or refresh token at the provider.
func (s *OIDCService) RevokeToken(ctx context.Context, token, tokenType string) error {
	log := s.log.TraceFromContext(ctx).Function("RevokeToken")

	discovery, err := s.getOIDCDiscovery(ctx)
	if err != nil {
		return log.Err("failed to get discovery for token revocation", err)
	}
	if discovery.RevocationEndpoint == "" {
		return log.ErrMsg("revocation_endpoint not found in OIDC discovery")
	}

	data := url.Values{}
	data.Set("token", token)
	data.Set("client_id", s.clientID)
	if tokenType != "" {
		data.Set("token_type_hint", tokenType)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		discovery.RevocationEndpoint,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return log.Err("failed to create revocation request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return log.Err("revocation request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close revocation response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return log.ErrMsg("revocation endpoint returned " + resp.Status + ": " + string(body))
	}

	return nil
}

// GetLogoutURL builds the provider's end-session URL.
func (s *OIDCService) GetLogoutURL(
	ctx context.Context,
	idTokenHint, postLogoutRedirectURI, state string,
) (string, error) {
	log := s.log.TraceFromContext(ctx).Function("GetLogoutURL")

	discovery, err := s.getOIDCDiscovery(ctx)
	if err != nil {
		return "", log.Err("failed to get discovery for logout URL", err)
	}
	if discovery.EndSessionEndpoint == "" {
		return "", log.ErrMsg("end_session_endpoint not found in OIDC discovery")
	}

	logoutURL, err := url.Parse(discovery.EndSessionEndpoint)
	if err != nil {
		return "", log.Err("failed to parse end session endpoint", err)
	}

	params := url.Values{}
	if idTokenHint != "" {
		params.Set("id_token_hint", idTokenHint)
	}
	if postLogoutRedirectURI != "" {
		params.Set("post_logout_redirect_uri", postLogoutRedirectURI)
	}
	if state != "" {
		params.Set("state", state)
	}
	logoutURL.RawQuery = params.Encode()

	return logoutURL.String(), nil
}

func (s *OIDCService) getOIDCDiscovery(ctx context.Context) (*OIDCDiscovery, error) {
	log := s.log.TraceFromContext(ctx).Function("getOIDCDiscovery")

	s.discoveryMux.RLock()
	if s.discovery != nil && time.Since(s.discoveryTime) < s.cacheTTL {
		discovery := s.discovery
		s.discoveryMux.RUnlock()
		return discovery, nil
	}
	s.discoveryMux.RUnlock()

	discoveryURL := strings.TrimSuffix(s.issuer, "/") + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil, log.Err("failed to create discovery request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch OIDC discovery", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close discovery response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.ErrMsg("OIDC discovery request failed with status " + resp.Status)
	}

	var discovery OIDCDiscovery
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return nil, log.Err("failed to decode OIDC discovery", err)
	}

	if discovery.Issuer != strings.TrimSuffix(s.issuer, "/") {
		return nil, log.ErrMsg(
			"invalid issuer in discovery document: expected " + s.issuer + ", got " + discovery.Issuer,
		)
	}
	if discovery.JWKS_URI == "" {
		return nil, log.ErrMsg("missing JWKS URI in discovery document")
	}

	s.discoveryMux.Lock()
	s.discovery = &discovery
	s.discoveryTime = time.Now()
	s.discoveryMux.Unlock()

	return &discovery, nil
}

func (s *OIDCService) getJWKS(ctx context.Context) (*JWKSet, error) {
	log := s.log.TraceFromContext(ctx).Function("getJWKS")

	s.jwksMux.RLock()
	if s.jwks != nil && time.Since(s.jwksTime) < s.cacheTTL {
		jwks := s.jwks
		s.jwksMux.RUnlock()
		return jwks, nil
	}
	s.jwksMux.RUnlock()

	discovery, err := s.getOIDCDiscovery(ctx)
	if err != nil {
		return nil, log.Err("failed to get OIDC discovery for JWKS", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discovery.JWKS_URI, nil)
	if err != nil {
		return nil, log.Err("failed to create JWKS request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch JWKS", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close JWKS response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.ErrMsg("JWKS request failed with status " + resp.Status)
	}

	var jwks JWKSet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, log.Err("failed to decode JWKS", err)
	}
	if len(jwks.Keys) == 0 {
		return nil, log.ErrMsg("JWKS contains no keys")
	}

	s.jwksMux.Lock()
	s.jwks = &jwks
	s.jwksTime = time.Now()
	s.jwksMux.Unlock()

	return &jwks, nil
}

func (s *OIDCService) getPublicKeyForToken(ctx context.Context, kidHeader string) (*rsa.PublicKey, error) {
	log := s.log.TraceFromContext(ctx).Function("getPublicKeyForToken")

	jwks, err := s.getJWKS(ctx)
	if err != nil {
		return nil, log.Err("failed to get JWKS", err)
	}

	var targetJWK *JWK
	for _, jwk := range jwks.Keys {
		if jwk.Kid == kidHeader {
			targetJWK = &jwk
			break
		}
	}
	if targetJWK == nil {
		return nil, log.ErrMsg("no matching key found: kid " + kidHeader + " not found in JWKS")
	}
	if targetJWK.Kty != "RSA" {
		return nil, log.ErrMsg("unsupported key type: expected RSA, got " + targetJWK.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.N)
	if err != nil {
		return nil, log.Err("failed to decode RSA modulus (n)", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(targetJWK.E)
	if err != nil {
		return nil, log.Err("failed to decode RSA exponent (e)", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	if !e.IsInt64() || e.Int64() > int64(^uint(0)>>1) {
		return nil, log.ErrMsg("RSA exponent too large: " + e.String())
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func (s *OIDCService) Close() error {
	return nil
}
