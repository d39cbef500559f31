package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"docvault/internal/domain/models"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.AccessClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Role:             "authenticated",
	}, nil
}

func (stubVerifier) Close() error { return nil }

func newTestHandler() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return buildHandler(http.NewServeMux(), stubVerifier{}, logger, "http://localhost:3000")
}

func TestHealthNeedsNoToken(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("health without token: got %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAPIRoutesRequireToken(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("api without token: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAPIRoutesAcceptValidToken(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/anything", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Empty API mux: reaching 404 means the request passed auth
	if rec.Code != http.StatusNotFound {
		t.Fatalf("api with token: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
