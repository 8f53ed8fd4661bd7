package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"myfunds/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("userID"),
			"email":   c.GetString("email"),
		})
	})
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testUser() *models.User {
	return &models.User{
		Base:  models.Base{ID: "user-123"},
		Email: "user@example.com",
	}
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthRouter()

	t.Run("valid_access_token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		rec := doAuthRequest(r, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("missing_header", func(t *testing.T) {
		rec := doAuthRequest(r, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("malformed_header", func(t *testing.T) {
		rec := doAuthRequest(r, "Token abc123")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		rec := doAuthRequest(r, "Bearer not.a.jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("refresh_token_rejected_as_access", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		rec := doAuthRequest(r, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("sets_user_context", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		rec := doAuthRequest(r, "Bearer "+token)
		body := rec.Body.String()
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		for _, want := range []string{"user-123", "user@example.com"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected body to contain %q, got %s", want, body)
			}
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		token, err := GenerateRefreshToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate refresh token: %v", err)
		}

		claims, err := ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claims.UserID != "user-123" {
			t.Errorf("expected user id user-123, got %s", claims.UserID)
		}
	})

	t.Run("access_token_rejected", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser())
		if err != nil {
			t.Fatalf("failed to generate access token: %v", err)
		}

		if _, err := ValidateRefreshToken(token); err == nil {
			t.Error("expected an error for an access token")
		}
	})

	t.Run("garbage_rejected", func(t *testing.T) {
		if _, err := ValidateRefreshToken("not-a-token"); err == nil {
			t.Error("expected an error for a malformed token")
		}
	})
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")
	if a == b {
		t.Error("expected distinct tokens to hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a != HashToken("token-a") {
		t.Error("expected hashing to be deterministic")
	}
}
