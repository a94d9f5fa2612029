package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/personachat/personachat-go/internal/crypto"
	"github.com/personachat/personachat-go/internal/middleware"
	"github.com/personachat/personachat-go/internal/repository"
	"github.com/personachat/personachat-go/internal/service"
)

const testSecret = "test-secret-test-secret-test-secret"

var userColumns = []string{"id", "name", "email", "password_hash", "created_at", "updated_at"}

func newTestAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	svc := service.NewAuthService(repository.NewUserRepository(db), testSecret, 15*time.Minute, 0)
	return NewAuthHandler(svc, false), mock, db
}

func loginRequest(email, password string) *http.Request {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleLoginSetsRefreshCookie(t *testing.T) {
	h, mock, db := newTestAuthHandler(t)
	defer db.Close()

	digest, err := crypto.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "a@x.com", digest, now, now))

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest("a@x.com", "password123"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TokenType != "bearer" {
		t.Errorf("token_type = %q, want %q", body.TokenType, "bearer")
	}

	claims, err := crypto.ValidateToken(body.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("access token subject = %q, want login email", claims.Subject)
	}

	cookies := rec.Result().Cookies()
	var refresh *http.Cookie
	for _, c := range cookies {
		if c.Name == "refresh_token" {
			refresh = c
		}
	}
	if refresh == nil {
		t.Fatal("refresh_token cookie not set")
	}
	if !refresh.HttpOnly {
		t.Error("refresh cookie is not HttpOnly")
	}
	if refresh.SameSite != http.SameSiteStrictMode {
		t.Errorf("refresh cookie SameSite = %v, want Strict", refresh.SameSite)
	}
	if refresh.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("refresh cookie MaxAge = %d, want 7 days", refresh.MaxAge)
	}
	if _, err := crypto.ValidateToken(refresh.Value, testSecret); err != nil {
		t.Errorf("refresh cookie does not carry a valid token: %v", err)
	}
}

func TestHandleLoginWrongPassword(t *testing.T) {
	h, mock, db := newTestAuthHandler(t)
	defer db.Close()

	digest, err := crypto.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "a@x.com", digest, now, now))

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, loginRequest("a@x.com", "wrong-password"))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on failed login")
	}
}

func TestHandleSignupDuplicate(t *testing.T) {
	h, mock, db := newTestAuthHandler(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'a@x.com' for key 'uq_users_email'"))

	body := `{"name":"Alice","email":"a@x.com","password":"password123"}`

	rec := httptest.NewRecorder()
	h.HandleSignup(rec, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.HandleSignup(rec, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second signup status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user already exists") {
		t.Errorf("second signup body = %s", rec.Body.String())
	}
}

func TestHandleRefreshMissingCookie(t *testing.T) {
	h, _, db := newTestAuthHandler(t)
	defer db.Close()

	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no refresh token found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleRefreshWrongSecretToken(t *testing.T) {
	h, _, db := newTestAuthHandler(t)
	defer db.Close()

	forged, err := crypto.GenerateRefreshToken("a@x.com", "some-other-secret-some-other-secret", 0)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: forged})

	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid refresh token") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleRefreshValidCookie(t *testing.T) {
	h, _, db := newTestAuthHandler(t)
	defer db.Close()

	refresh, err := crypto.GenerateRefreshToken("a@x.com", testSecret, 0)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})

	rec := httptest.NewRecorder()
	h.HandleRefresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	claims, err := crypto.ValidateToken(body.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("issued access token invalid: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("subject = %q, want original subject", claims.Subject)
	}
}

func TestHandleLogoutClearsCookie(t *testing.T) {
	h, _, db := newTestAuthHandler(t)
	defer db.Close()

	rec := httptest.NewRecorder()
	h.HandleLogout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "refresh_token" {
		t.Fatalf("expected refresh_token cookie, got %+v", cookies)
	}
	if cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Errorf("logout should clear the cookie, got MaxAge=%d Value=%q", cookies[0].MaxAge, cookies[0].Value)
	}
}

func TestHandleProfile(t *testing.T) {
	h, _, db := newTestAuthHandler(t)
	defer db.Close()

	token, err := crypto.GenerateAccessToken("a@x.com", testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	gate := middleware.JWTAuth(testSecret)(http.HandlerFunc(h.HandleProfile))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello, a@x.com!") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleProfileExpiredToken(t *testing.T) {
	h, _, db := newTestAuthHandler(t)
	defer db.Close()

	token, err := crypto.GenerateAccessToken("a@x.com", testSecret, time.Millisecond)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	gate := middleware.JWTAuth(testSecret)(http.HandlerFunc(h.HandleProfile))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", rec.Code)
	}
}
