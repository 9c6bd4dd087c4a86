package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"main/config"
	"main/dto"
	"main/model"
	"main/services"
	"main/utils"

	"github.com/google/uuid"
)

type AccountStore interface {
	UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
}

type SessionStore interface {
	CreateSession(session *model.Session) error
	GetSession(sessionID string) (*model.Session, error)
	UpdateSession(session *model.Session) error
	EndSession(sessionID string) error
	CountActiveSessions(userID string) (int, error)
	EndLeastActiveSession(userID string) error
	EndAllUserSessions(userID string) error
}

// SessionDevice carries the request-derived fields stamped onto a new
// session document.
type SessionDevice struct {
	DisplayName string
	DeviceInfo  string
	IPAddress   string
}

// AuthService bridges Google sign-in to the app's own sessions and JWTs.
type AuthService struct {
	Verifier    services.GoogleVerifier
	UserRepo    AccountStore
	SessionRepo SessionStore
	Tokens      *services.TokenService
	Blacklist   *services.TokenBlacklist
	Cfg         config.AuthConfig
}

// LoginWithGoogle verifies the ID token, upserts the user profile and opens
// a new session with an access/refresh token pair.
func (svc *AuthService) LoginWithGoogle(ctx context.Context, idToken string, device SessionDevice) (*model.UserProfile, *dto.TokenResponse, error) {
	identity, err := svc.Verifier.Verify(ctx, idToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "google")
		return nil, nil, err
	}

	profile, err := svc.UserRepo.UpsertProfile(ctx, &model.UserProfile{
		GoogleID:    identity.Subject,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
	})
	if err != nil {
		utils.TrackAuthAttempt("failure", "google")
		return nil, nil, err
	}

	// Enforce the per-user session cap by evicting the stalest session.
	if count, err := svc.SessionRepo.CountActiveSessions(profile.UserID); err == nil && count >= svc.Cfg.MaxSessionsPerUser {
		if err := svc.SessionRepo.EndLeastActiveSession(profile.UserID); err != nil {
			log.Printf("Failed to evict least active session for %s: %v", profile.UserID, err)
		}
	}

	sessionID := uuid.New().String()

	accessToken, err := svc.Tokens.GenerateAccessToken(profile.UserID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := svc.Tokens.GenerateRefreshToken(profile.UserID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	refreshHash, err := services.HashRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	session := &model.Session{
		SessionID:        sessionID,
		UserID:           profile.UserID,
		DisplayName:      device.DisplayName,
		DeviceInfo:       device.DeviceInfo,
		IPAddress:        device.IPAddress,
		CreatedAt:        now,
		ExpiresAt:        now.Add(svc.Cfg.SessionDuration),
		LastActivityAt:   now,
		IsActive:         true,
		RefreshTokenHash: refreshHash,
	}
	if err := svc.SessionRepo.CreateSession(session); err != nil {
		return nil, nil, err
	}

	utils.TrackAuthAttempt("success", "google")
	return profile, &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself is not rotated.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if svc.Blacklist != nil && svc.Blacklist.IsBlacklisted(refreshToken) {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, errors.New("token has been invalidated")
	}

	claims, err := svc.Tokens.ParseToken(refreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, err
	}
	if !claims.IsRefresh {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, errors.New("not a refresh token")
	}

	session, err := svc.SessionRepo.GetSession(claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive || time.Now().After(session.ExpiresAt) {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, errors.New("session is no longer active")
	}
	if !services.CheckRefreshToken(refreshToken, session.RefreshTokenHash) {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, errors.New("refresh token does not match session")
	}

	accessToken, err := svc.Tokens.GenerateAccessToken(claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "refresh")
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    claims.SessionID,
	}, nil
}

// Logout blacklists the presented tokens and ends the session. Data feeds
// keyed on this user go owner-less on their next subscription delivery.
func (svc *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := svc.Tokens.ParseToken(accessToken)
	if err != nil {
		return err
	}

	if svc.Blacklist != nil {
		if err := svc.Blacklist.Blacklist(accessToken, claims.ExpiresAt); err != nil {
			log.Printf("Failed to blacklist access token: %v", err)
		}
		if refreshToken != "" {
			if refreshClaims, err := svc.Tokens.ParseToken(refreshToken); err == nil {
				if err := svc.Blacklist.Blacklist(refreshToken, refreshClaims.ExpiresAt); err != nil {
					log.Printf("Failed to blacklist refresh token: %v", err)
				}
			}
		}
	}

	if claims.SessionID != "" {
		if err := svc.SessionRepo.EndSession(claims.SessionID); err != nil {
			return err
		}
	}
	return nil
}

// LogoutAll ends every active session for the user.
func (svc *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return svc.SessionRepo.EndAllUserSessions(userID)
}

// GetProfile returns the signed-in user's profile.
func (svc *AuthService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := svc.UserRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("profile not found")
	}
	return profile, nil
}
