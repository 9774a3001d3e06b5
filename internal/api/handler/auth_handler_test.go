package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
)

// stubAccountService lets each test plug in just the behaviour it needs.
type stubAccountService struct {
	registerFn       func(in ports.RegisterInput) (*ports.UserSummary, error)
	loginFn          func(email, password string) (*ports.LoginResult, error)
	getProfileFn     func(userID string) (*domain.User, error)
	updateProfileFn  func(userID string, fields ports.ProfileUpdate) (*domain.User, error)
	updatePasswordFn func(userID, current, next string) (string, error)
	forgotFn         func(email string) error
	resetFn          func(token, newPassword string) (string, error)
	verifyFn         func(token string) error
	refreshFn        func(refreshToken string) (*ports.TokenPair, error)
}

func (s *stubAccountService) Register(_ context.Context, in ports.RegisterInput) (*ports.UserSummary, error) {
	return s.registerFn(in)
}

func (s *stubAccountService) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(email, password)
}

func (s *stubAccountService) Logout(context.Context, string) error { return nil }

func (s *stubAccountService) GetProfile(_ context.Context, userID string) (*domain.User, error) {
	return s.getProfileFn(userID)
}

func (s *stubAccountService) UpdateProfile(_ context.Context, userID string, fields ports.ProfileUpdate) (*domain.User, error) {
	return s.updateProfileFn(userID, fields)
}

func (s *stubAccountService) UpdatePassword(_ context.Context, userID, current, next string) (string, error) {
	return s.updatePasswordFn(userID, current, next)
}

func (s *stubAccountService) ForgotPassword(_ context.Context, email string) error {
	return s.forgotFn(email)
}

func (s *stubAccountService) ResetPassword(_ context.Context, token, newPassword string) (string, error) {
	return s.resetFn(token, newPassword)
}

func (s *stubAccountService) VerifyEmail(_ context.Context, token string) error {
	return s.verifyFn(token)
}

func (s *stubAccountService) Refresh(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	return s.refreshFn(refreshToken)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestRegisterHandler_Created(t *testing.T) {
	svc := &stubAccountService{
		registerFn: func(in ports.RegisterInput) (*ports.UserSummary, error) {
			if in.Email != "asha@example.com" {
				t.Fatalf("unexpected email %q", in.Email)
			}
			return &ports.UserSummary{ID: "user_1", Email: in.Email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"first_name":"Asha","last_name":"Mwangi","email":"asha@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
}

func TestRegisterHandler_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"first_name":"Asha","last_name":"Mwangi","email":"not-an-email","password":"short"}`)
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestRegisterHandler_DuplicateEmailPassesThrough(t *testing.T) {
	svc := &stubAccountService{
		registerFn: func(ports.RegisterInput) (*ports.UserSummary, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"first_name":"A","last_name":"B","email":"a@x.com","password":"secret1"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail to pass through, got %v", err)
	}
}

func TestLoginHandler_OK(t *testing.T) {
	svc := &stubAccountService{
		loginFn: func(email, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				User:         ports.UserSummary{ID: "user_1", Email: email},
				Token:        "access.jwt",
				RefreshToken: "refresh.jwt",
			}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["token"] != "access.jwt" || data["refresh_token"] != "refresh.jwt" {
		t.Fatalf("token pair missing from payload: %v", data)
	}
}

func TestLoginHandler_ServiceErrorsPassThrough(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountLocked} {
		svc := &stubAccountService{
			loginFn: func(string, string) (*ports.LoginResult, error) { return nil, want },
		}
		h := NewAuthHandler(svc)

		c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/login",
			`{"email":"a@x.com","password":"wrong"}`)
		if err := h.Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v to pass through, got %v", want, err)
		}
	}
}

func TestMeHandler(t *testing.T) {
	svc := &stubAccountService{
		getProfileFn: func(userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: "a@x.com"}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/me", "")
	c.Set("user_id", "user_1")
	if err := h.Me(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMeHandler_MissingClaims(t *testing.T) {
	h := NewAuthHandler(&stubAccountService{})

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/auth/me", "")
	err := h.Me(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestUpdateDetailsHandler(t *testing.T) {
	svc := &stubAccountService{
		updateProfileFn: func(userID string, fields ports.ProfileUpdate) (*domain.User, error) {
			if fields.Language == nil || *fields.Language != "sw" {
				t.Fatalf("language not forwarded: %+v", fields)
			}
			if fields.FirstName != nil {
				t.Fatalf("absent fields must stay nil")
			}
			return &domain.User{ID: userID}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/updatedetails", `{"language":"sw"}`)
	c.Set("user_id", "user_1")
	if err := h.UpdateDetails(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUpdatePasswordHandler(t *testing.T) {
	svc := &stubAccountService{
		updatePasswordFn: func(userID, current, next string) (string, error) {
			if current != "secret1" || next != "newpass" {
				t.Fatalf("passwords not forwarded: %q %q", current, next)
			}
			return "fresh.jwt", nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/updatepassword",
		`{"current_password":"secret1","new_password":"newpass"}`)
	c.Set("user_id", "user_1")
	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["token"] != "fresh.jwt" {
		t.Fatalf("fresh token missing from payload: %v", data)
	}
}

func TestForgotPasswordHandler(t *testing.T) {
	svc := &stubAccountService{
		forgotFn: func(email string) error {
			if email != "a@x.com" {
				t.Fatalf("email not forwarded: %q", email)
			}
			return nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/forgotpassword", `{"email":"a@x.com"}`)
	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestForgotPasswordHandler_UnknownEmailPassesThrough(t *testing.T) {
	svc := &stubAccountService{
		forgotFn: func(string) error { return domain.ErrUserNotFound },
	}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/forgotpassword", `{"email":"ghost@x.com"}`)
	if err := h.ForgotPassword(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to pass through, got %v", err)
	}
}

func TestResetPasswordHandler(t *testing.T) {
	svc := &stubAccountService{
		resetFn: func(token, newPassword string) (string, error) {
			if token != "deadbeef" || newPassword != "newpass" {
				t.Fatalf("args not forwarded: %q %q", token, newPassword)
			}
			return "fresh.jwt", nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/resetpassword/deadbeef",
		`{"password":"newpass"}`)
	c.SetParamNames("resettoken")
	c.SetParamValues("deadbeef")
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestVerifyEmailHandler(t *testing.T) {
	svc := &stubAccountService{
		verifyFn: func(token string) error {
			if token != "deadbeef" {
				t.Fatalf("token not forwarded: %q", token)
			}
			return nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/verify-email/deadbeef", "")
	c.SetParamNames("token")
	c.SetParamValues("deadbeef")
	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRefreshHandler_OK(t *testing.T) {
	svc := &stubAccountService{
		refreshFn: func(refreshToken string) (*ports.TokenPair, error) {
			return &ports.TokenPair{Token: "new.access", RefreshToken: "new.refresh"}, nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/refresh",
		`{"refresh_token":"old.refresh"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["token"] != "new.access" || data["refresh_token"] != "new.refresh" {
		t.Fatalf("new pair missing from payload: %v", data)
	}
}

func TestRefreshHandler_InvalidTokenIsUnauthorized(t *testing.T) {
	svc := &stubAccountService{
		refreshFn: func(string) (*ports.TokenPair, error) { return nil, domain.ErrInvalidToken },
	}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/refresh",
		`{"refresh_token":"bogus"}`)
	err := h.Refresh(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("bad refresh token must map to 401, got %v", err)
	}
}

func TestRefreshHandler_MissingTokenPassesThrough(t *testing.T) {
	svc := &stubAccountService{
		refreshFn: func(string) (*ports.TokenPair, error) { return nil, domain.ErrMissingToken },
	}
	h := NewAuthHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/refresh", `{}`)
	if err := h.Refresh(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken to pass through, got %v", err)
	}
}
