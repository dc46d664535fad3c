package authController

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recondo/internal/database"
	"recondo/internal/logger"
	"recondo/internal/models"
	"recondo/internal/repositories"
	"recondo/internal/services"
)

// AuthController handles the hosted-auth login flow and local user
// provisioning. Identity lives with the OIDC provider; this layer only maps
// validated tokens onto dealership users.
type AuthController struct {
	oidcService    *services.OIDCService
	userRepo       repositories.UserRepository
	dealershipRepo repositories.DealershipRepository
	db             database.DB
	log            logger.Logger
}

type AuthControllerInterface interface {
	GetAuthConfig() (*AuthConfigResponse, error)
	GenerateAuthURL(state, redirectURI, codeChallenge, nonce string) (*AuthURLResponse, error)
	HandleOIDCCallback(ctx context.Context, req OIDCCallbackRequest) (*TokenExchangeResult, error)
	GetCurrentUserInfo(ctx context.Context, oidcUserID string) (*UserProfileResponse, error)
	LogoutUser(ctx context.Context, req LogoutRequest, oidcUserID string) (*LogoutResponse, error)
	IsConfigured() bool
}

type AuthConfigResponse struct {
	Configured bool   `json:"configured"`
	IssuerURL  string `json:"issuerUrl,omitempty"`
	ClientID   string `json:"clientId,omitempty"`
	Message    string `json:"message,omitempty"`
}

type AuthURLResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	State            string `json:"state"`
}

type OIDCCallbackRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	State        string `json:"state,omitempty"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

type TokenExchangeResult struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresIn   int64              `json:"expires_in"`
	IDToken     string             `json:"id_token,omitempty"`
	State       string             `json:"state,omitempty"`
	User        models.UserProfile `json:"user"`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token,omitempty"`
	IDToken               string `json:"id_token,omitempty"`
	PostLogoutRedirectURI string `json:"post_logout_redirect_uri,omitempty"`
	State                 string `json:"state,omitempty"`
	AccessToken           string `json:"access_token,omitempty"`
}

type LogoutResponse struct {
	Message       string   `json:"message"`
	LogoutURL     string   `json:"logout_url,omitempty"`
	RevokedTokens []string `json:"revoked_tokens,omitempty"`
}

type UserProfileResponse struct {
	User models.UserProfile `json:"user"`
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		oidcService:    services.OIDC,
		userRepo:       repos.User,
		dealershipRepo: repos.Dealership,
		db:             db,
		log:            logger.New("authController"),
	}
}

func (c *AuthController) IsConfigured() bool {
	return c.oidcService.IsConfigured()
}

func (c *AuthController) GetAuthConfig() (*AuthConfigResponse, error) {
	if !c.oidcService.IsConfigured() {
		return &AuthConfigResponse{
			Configured: false,
			Message:    "Authentication not configured",
		}, nil
	}

	config := c.oidcService.GetConfig()
	return &AuthConfigResponse{
		Configured: true,
		IssuerURL:  config.IssuerURL,
		ClientID:   config.ClientID,
	}, nil
}

func (c *AuthController) GenerateAuthURL(
	state, redirectURI, codeChallenge, nonce string,
) (*AuthURLResponse, error) {
	log := c.log.Function("GenerateAuthURL")

	if !c.oidcService.IsConfigured() {
		return nil, fmt.Errorf("authentication not configured")
	}
	if redirectURI == "" {
		return nil, fmt.Errorf("redirect_uri parameter is required")
	}

	if nonce != "" {
		if err := c.storeNonce(context.Background(), nonce); err != nil {
			log.Warn("failed to store nonce, continuing without replay protection", "error", err)
		}
	}

	authURL := c.oidcService.GetAuthorizationURL(state, redirectURI, codeChallenge, nonce)
	if authURL == "" {
		return nil, fmt.Errorf("failed to generate authorization URL")
	}

	return &AuthURLResponse{
		AuthorizationURL: authURL,
		State:            state,
	}, nil
}

func (c *AuthController) HandleOIDCCallback(
	ctx context.Context,
	req OIDCCallbackRequest,
) (*TokenExchangeResult, error) {
	log := c.log.TraceFromContext(ctx).Function("HandleOIDCCallback")

	if !c.oidcService.IsConfigured() {
		return nil, fmt.Errorf("authentication not configured")
	}
	if req.Code == "" || req.RedirectURI == "" {
		return nil, fmt.Errorf("code and redirect_uri are required")
	}

	tokenResp, err := c.oidcService.ExchangeCodeForToken(ctx, services.TokenExchangeRequest{
		Code:         req.Code,
		RedirectURI:  req.RedirectURI,
		State:        req.State,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		log.Info("token exchange failed", "error", err.Error())
		return nil, fmt.Errorf("authentication failed")
	}

	if tokenResp.IDToken == "" {
		log.Info("token response missing id_token")
		return nil, fmt.Errorf("authentication failed")
	}

	tokenInfo, err := c.oidcService.ValidateIDToken(ctx, tokenResp.IDToken)
	if err != nil || !tokenInfo.Valid {
		log.Info("token validation failed", "error", err)
		return nil, fmt.Errorf("authentication failed")
	}

	if tokenInfo.Nonce != "" {
		if err := c.validateAndCleanupNonce(ctx, tokenInfo.Nonce); err != nil {
			log.Info("nonce validation failed", "error", err.Error())
			return nil, fmt.Errorf("authentication failed")
		}
	}

	user, err := c.getOrCreateOIDCUser(ctx, tokenInfo)
	if err != nil {
		return nil, err
	}

	log.Info("OIDC callback successful", "userID", user.ID)
	return &TokenExchangeResult{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		ExpiresIn:   tokenResp.ExpiresIn,
		IDToken:     tokenResp.IDToken,
		State:       req.State,
		User:        user.ToProfile(),
	}, nil
}

func (c *AuthController) GetCurrentUserInfo(
	ctx context.Context,
	oidcUserID string,
) (*UserProfileResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("GetCurrentUserInfo")

	if oidcUserID == "" {
		return nil, fmt.Errorf("authentication required")
	}

	user, err := c.userRepo.GetByOIDCUserID(ctx, oidcUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, log.ErrMsg("user not found", "oidcUserID", oidcUserID)
	}

	return &UserProfileResponse{User: user.ToProfile()}, nil
}

func (c *AuthController) LogoutUser(
	ctx context.Context,
	req LogoutRequest,
	oidcUserID string,
) (*LogoutResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("LogoutUser")

	var revokedTokens []string

	if req.AccessToken != "" && c.oidcService.IsConfigured() {
		if err := c.oidcService.RevokeToken(ctx, req.AccessToken, "access_token"); err != nil {
			log.Warn("failed to revoke access token", "error", err.Error())
		} else {
			revokedTokens = append(revokedTokens, "access_token")
		}
	}

	if req.RefreshToken != "" && c.oidcService.IsConfigured() {
		if err := c.oidcService.RevokeToken(ctx, req.RefreshToken, "refresh_token"); err != nil {
			log.Warn("failed to revoke refresh token", "error", err.Error())
		} else {
			revokedTokens = append(revokedTokens, "refresh_token")
		}
	}

	var logoutURL string
	if c.oidcService.IsConfigured() {
		url, err := c.oidcService.GetLogoutURL(ctx, req.IDToken, req.PostLogoutRedirectURI, req.State)
		if err != nil {
			log.Warn("failed to generate logout URL", "error", err.Error())
		} else {
			logoutURL = url
		}
	}

	if oidcUserID != "" {
		log.Info("user logout completed", "oidcUserID", oidcUserID, "revokedTokens", len(revokedTokens))
	}

	return &LogoutResponse{
		Message:       "Logout successful",
		LogoutURL:     logoutURL,
		RevokedTokens: revokedTokens,
	}, nil
}

// getOrCreateOIDCUser maps validated token claims onto a local user record,
// creating one on first login. New users join the first active dealership; a
// manager reassigns them afterwards if needed.
func (c *AuthController) getOrCreateOIDCUser(
	ctx context.Context,
	tokenInfo *services.TokenInfo,
) (*models.User, error) {
	log := c.log.TraceFromContext(ctx).Function("getOrCreateOIDCUser")

	user, err := c.userRepo.GetByOIDCUserID(ctx, tokenInfo.UserID)
	if err != nil {
		return nil, err
	}

	firstName := tokenInfo.GivenName
	lastName := tokenInfo.FamilyName
	if firstName == "" && tokenInfo.Name != "" {
		names := strings.Fields(tokenInfo.Name)
		if len(names) > 0 {
			firstName = names[0]
		}
		if len(names) > 1 {
			lastName = strings.Join(names[1:], " ")
		}
	}

	if user != nil {
		user.UpdateFromOIDC(
			tokenInfo.UserID,
			&tokenInfo.Email,
			&tokenInfo.Name,
			firstName,
			lastName,
			"oidc",
			tokenInfo.EmailVerified,
		)
		if err := c.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	dealerships, err := c.dealershipRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(dealerships) == 0 {
		return nil, log.ErrMsg("no active dealership to assign new user to",
			"oidcUserID", tokenInfo.UserID)
	}

	now := time.Now()
	provider := "oidc"
	newUser := &models.User{
		DealershipID:    dealerships[0].ID,
		FirstName:       firstName,
		LastName:        lastName,
		OIDCUserID:      tokenInfo.UserID,
		OIDCProvider:    &provider,
		LastLoginAt:     &now,
		ProfileVerified: tokenInfo.EmailVerified,
	}
	if tokenInfo.Email != "" {
		email := tokenInfo.Email
		newUser.Email = &email
	}
	if tokenInfo.Name != "" {
		newUser.DisplayName = tokenInfo.Name
	}

	if err := c.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	log.Info("provisioned new user from OIDC claims",
		"userID", newUser.ID, "dealershipID", newUser.DealershipID)
	return newUser, nil
}

func (c *AuthController) storeNonce(ctx context.Context, nonce string) error {
	log := c.log.Function("storeNonce")

	if nonce == "" {
		return fmt.Errorf("nonce is required")
	}

	err := database.NewCacheBuilder(c.db.Cache.Session, nonce).
		WithHash("nonce").
		WithValue("1").
		WithTTL(10 * time.Minute).
		WithContext(ctx).
		Set()
	if err != nil {
		return log.Err("failed to store nonce in cache", err)
	}

	return nil
}

func (c *AuthController) validateAndCleanupNonce(ctx context.Context, nonce string) error {
	log := c.log.Function("validateAndCleanupNonce")

	if nonce == "" {
		return fmt.Errorf("nonce is required")
	}

	var result string
	found, err := database.NewCacheBuilder(c.db.Cache.Session, nonce).
		WithHash("nonce").
		WithContext(ctx).
		Get(&result)
	if err != nil {
		return log.Err("failed to validate nonce", err)
	}
	if !found {
		return fmt.Errorf("nonce not found or expired")
	}

	// One-time use; a failed cleanup only shortens the replay window by TTL.
	err = database.NewCacheBuilder(c.db.Cache.Session, nonce).
		WithHash("nonce").
		WithContext(ctx).
		Delete()
	if err != nil {
		log.Warn("failed to cleanup nonce from cache", "error", err.Error())
	}

	return nil
}
