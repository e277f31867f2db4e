package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func newProtectedEngine(tokens *utils.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/private", AuthMiddleware(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUsername))
	})
	return engine
}

func doGet(engine *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareDisabledPassesThrough(t *testing.T) {
	w := doGet(newProtectedEngine(nil), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewTokenManager("0123456789abcdef-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := tokens.GenerateAccessToken("operador")
	if err != nil {
		t.Fatal(err)
	}
	engine := newProtectedEngine(tokens)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(engine, tt.header)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.code, w.Body.String())
			}
			if tt.code == http.StatusOK && w.Body.String() != "operador" {
				t.Fatalf("username = %q", w.Body.String())
			}
		})
	}
}
