package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"voxpense/internal/dto"
	"voxpense/internal/models"
	"voxpense/internal/repository"
	"voxpense/pkg/auth"
	"voxpense/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrOAuthNotConfigured = errors.New("google oauth is not configured")

// GoogleAuthService exchanges an authorization code from the client's native
// or browser-redirect sign-in flow, then upserts the user on first login.
type GoogleAuthService struct {
	userRepo    *repository.UserRepository
	jwtManager  *auth.JWTManager
	authService *AuthService
	oauthConfig *oauth2.Config
	logger      *zap.Logger
}

func NewGoogleAuthService(
	userRepo *repository.UserRepository,
	jwtManager *auth.JWTManager,
	authService *AuthService,
	cfg *config.GoogleConfig,
	logger *zap.Logger,
) *GoogleAuthService {
	var oauthConfig *oauth2.Config
	if cfg.OAuthClientID != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &GoogleAuthService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		authService: authService,
		oauthConfig: oauthConfig,
		logger:      logger,
	}
}

// AuthURL returns the consent URL the client opens in a browser. The custom
// scheme redirect brings the resulting code back into the app.
func (s *GoogleAuthService) AuthURL() (string, error) {
	if s.oauthConfig == nil {
		return "", ErrOAuthNotConfigured
	}
	return s.oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

type googleUserinfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SignIn exchanges the code, fetches the Google profile and issues tokens.
// The user record is created on first login and refreshed afterwards.
func (s *GoogleAuthService) SignIn(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.AuthResponse, error) {
	if s.oauthConfig == nil {
		return nil, ErrOAuthNotConfigured
	}

	token, err := s.oauthConfig.Exchange(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	info, err := s.fetchUserinfo(ctx, token)
	if err != nil {
		return nil, err
	}

	if info.Email == "" {
		return nil, ErrInvalidCredentials
	}

	username := info.Name
	if username == "" {
		username = info.Email
	}

	now := time.Now()
	user, err := s.userRepo.UpsertGoogle(ctx, &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     info.Email,
		GoogleID:  info.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	s.logger.Info("Google sign-in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return s.authService.issueTokens(user)
}

func (s *GoogleAuthService) fetchUserinfo(ctx context.Context, token *oauth2.Token) (*googleUserinfo, error) {
	client := s.oauthConfig.Client(ctx, token)

	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo failed with status %d", resp.StatusCode)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return &info, nil
}
