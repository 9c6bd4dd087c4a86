package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"main/config"
	"main/model"
	"main/services"
)

type fakeVerifier struct {
	identity *services.GoogleIdentity
	err      error
}

func (v *fakeVerifier) Verify(ctx context.Context, idToken string) (*services.GoogleIdentity, error) {
	return v.identity, v.err
}

type fakeAccountStore struct {
	profiles map[string]*model.UserProfile
}

func (s *fakeAccountStore) UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	if s.profiles == nil {
		s.profiles = map[string]*model.UserProfile{}
	}
	profile.UserID = "uid-" + profile.GoogleID
	profile.CreatedAt = time.Now()
	s.profiles[profile.UserID] = profile
	return profile, nil
}

func (s *fakeAccountStore) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.profiles[userID], nil
}

type fakeSessionStore struct {
	sessions map[string]*model.Session
	evicted  int
	endedAll int
}

func (s *fakeSessionStore) CreateSession(session *model.Session) error {
	if s.sessions == nil {
		s.sessions = map[string]*model.Session{}
	}
	s.sessions[session.SessionID] = session
	return nil
}

func (s *fakeSessionStore) GetSession(sessionID string) (*model.Session, error) {
	return s.sessions[sessionID], nil
}

func (s *fakeSessionStore) UpdateSession(session *model.Session) error {
	if _, ok := s.sessions[session.SessionID]; !ok {
		return errors.New("not found")
	}
	s.sessions[session.SessionID] = session
	return nil
}

func (s *fakeSessionStore) EndSession(sessionID string) error {
	if session, ok := s.sessions[sessionID]; ok {
		session.IsActive = false
	}
	return nil
}

func (s *fakeSessionStore) CountActiveSessions(userID string) (int, error) {
	count := 0
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *fakeSessionStore) EndLeastActiveSession(userID string) error {
	s.evicted++
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			session.IsActive = false
			return nil
		}
	}
	return nil
}

func (s *fakeSessionStore) EndAllUserSessions(userID string) error {
	s.endedAll++
	for _, session := range s.sessions {
		if session.UserID == userID {
			session.IsActive = false
		}
	}
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecretKey:       "test-secret",
		JWTExpiration:      time.Hour,
		RefreshExpiration:  7 * 24 * time.Hour,
		SessionDuration:    24 * time.Hour,
		GoogleClientID:     "client-id",
		MaxSessionsPerUser: 2,
	}
}

func newTestAuthService(verifier *fakeVerifier, sessions *fakeSessionStore) *AuthService {
	cfg := testAuthConfig()
	return &AuthService{
		Verifier:    verifier,
		UserRepo:    &fakeAccountStore{},
		SessionRepo: sessions,
		Tokens:      services.NewTokenService(cfg),
		Cfg:         cfg,
	}
}

func testIdentity() *services.GoogleIdentity {
	return &services.GoogleIdentity{
		Subject:     "google-123",
		Email:       "user@example.com",
		DisplayName: "Memo User",
		PhotoURL:    "https://example.com/p.jpg",
	}
}

func TestLoginWithGoogle(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	profile, tokens, err := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{
		DisplayName: "Chrome on Mac OS X",
		IPAddress:   "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("LoginWithGoogle failed: %v", err)
	}

	if profile.UserID != "uid-google-123" {
		t.Errorf("unexpected user id %q", profile.UserID)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}

	claims, err := svc.Tokens.ParseToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token must parse: %v", err)
	}
	if claims.IsRefresh {
		t.Error("access token must not carry the refresh flag")
	}
	if claims.UserID != profile.UserID || claims.SessionID != tokens.SessionID {
		t.Error("claims must bind the token to the user and session")
	}

	session := sessions.sessions[tokens.SessionID]
	if session == nil || !session.IsActive {
		t.Fatal("login must open an active session")
	}
	if session.RefreshTokenHash == "" {
		t.Error("the refresh token hash must be stored on the session")
	}
	if !services.CheckRefreshToken(tokens.RefreshToken, session.RefreshTokenHash) {
		t.Error("the issued refresh token must verify against the stored hash")
	}
}

func TestLoginRejectsBadIDToken(t *testing.T) {
	svc := newTestAuthService(&fakeVerifier{err: errors.New("bad audience")}, &fakeSessionStore{})

	if _, _, err := svc.LoginWithGoogle(context.Background(), "forged", SessionDevice{}); err == nil {
		t.Error("expected error for an unverifiable ID token")
	}
}

func TestLoginEvictsAtSessionCap(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	for i := 0; i < 3; i++ {
		if _, _, err := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{}); err != nil {
			t.Fatalf("login %d failed: %v", i, err)
		}
	}

	// Cap is 2: the third login must evict the stalest session.
	if sessions.evicted != 1 {
		t.Errorf("expected 1 eviction, got %d", sessions.evicted)
	}
	count, _ := sessions.CountActiveSessions("uid-google-123")
	if count != 2 {
		t.Errorf("expected 2 active sessions after eviction, got %d", count)
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	_, tokens, err := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	claims, err := svc.Tokens.ParseToken(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token must parse: %v", err)
	}
	if claims.IsRefresh {
		t.Error("refresh must issue an access token, not another refresh token")
	}
	if refreshed.RefreshToken != tokens.RefreshToken {
		t.Error("the refresh token is not rotated")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	_, tokens, _ := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{})

	if _, err := svc.Refresh(context.Background(), tokens.AccessToken); err == nil {
		t.Error("an access token must not be usable at the refresh endpoint")
	}
}

func TestRefreshRejectsEndedSession(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	_, tokens, _ := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{})
	sessions.EndSession(tokens.SessionID)

	if _, err := svc.Refresh(context.Background(), tokens.RefreshToken); err == nil {
		t.Error("refresh must fail after the session has ended")
	}
}

func TestLogoutAllRevokesEveryRefreshToken(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	_, first, err := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	_, second, err := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.LogoutAll(context.Background(), "uid-google-123"); err != nil {
		t.Fatalf("LogoutAll failed: %v", err)
	}

	// No lookup path may still answer with an active session afterwards.
	for _, tokens := range []*struct{ refresh, name string }{
		{first.RefreshToken, "first"},
		{second.RefreshToken, "second"},
	} {
		if _, err := svc.Refresh(context.Background(), tokens.refresh); err == nil {
			t.Errorf("refresh with the %s device's token must fail after sign-out of all devices", tokens.name)
		}
	}
	count, _ := sessions.CountActiveSessions("uid-google-123")
	if count != 0 {
		t.Errorf("expected no active sessions, got %d", count)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	sessions := &fakeSessionStore{}
	svc := newTestAuthService(&fakeVerifier{identity: testIdentity()}, sessions)

	_, tokens, _ := svc.LoginWithGoogle(context.Background(), "id-token", SessionDevice{})

	if err := svc.Logout(context.Background(), tokens.AccessToken, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	session := sessions.sessions[tokens.SessionID]
	if session.IsActive {
		t.Error("logout must deactivate the session")
	}
}
