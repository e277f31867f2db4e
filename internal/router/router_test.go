package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gamebus_backend/internal/config"
	"gamebus_backend/internal/database"
	"gamebus_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

func newEngine(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := database.NewXLSXBackend(t.TempDir() + "/GameBus_DB.xlsx")
	if err := backend.Save(context.Background(), &database.Workbook{}); err != nil {
		t.Fatal(err)
	}
	store := repositories.NewStore(backend)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	engine := gin.New()
	if err := Setup(engine, store, cfg); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return engine
}

func baseConfig() config.Config {
	return config.Config{
		StoreDriver:        config.DriverXLSX,
		PhoneRegion:        "MX",
		FixedCostFromMonth: 10,
		JWTTTL:             time.Hour,
		GeocoderURL:        "http://127.0.0.1:1",
		GeocoderTimeout:    100 * time.Millisecond,
	}
}

func serve(engine *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRoutesWithoutAuth(t *testing.T) {
	engine := newEngine(t, baseConfig())

	for _, path := range []string{
		"/api/v1/events",
		"/api/v1/calendar",
		"/api/v1/calendar/export.ics",
		"/api/v1/events/export.csv",
		"/api/v1/dashboard/monthly",
		"/api/v1/dashboard/kpis",
		"/api/v1/ads",
		"/api/v1/funnel",
		"/api/v1/assumptions",
		"/api/v1/workbook",
	} {
		if w := serve(engine, http.MethodGet, path, "", ""); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d %s", path, w.Code, w.Body.String())
		}
	}

	w := serve(engine, http.MethodGet, "/api/v1/auth/me", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"auth_enabled":false`) {
		t.Fatalf("me = %d %s", w.Code, w.Body.String())
	}
	if w := serve(engine, http.MethodPost, "/api/v1/auth/login", `{"username":"a","password":"b"}`, ""); w.Code != http.StatusNotFound {
		t.Fatalf("login with auth disabled = %d", w.Code)
	}
}

func TestRoutesWithAuth(t *testing.T) {
	cfg := baseConfig()
	cfg.OperatorUsername = "admin"
	cfg.OperatorPassword = "s3cret-pass"
	cfg.JWTSecret = "router-test-secret-0123456789"
	engine := newEngine(t, cfg)

	if w := serve(engine, http.MethodGet, "/api/v1/events", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", w.Code)
	}
	if w := serve(engine, http.MethodGet, "/api/v1/events", "", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", w.Code)
	}
	if w := serve(engine, http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"nope"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d", w.Code)
	}

	w := serve(engine, http.MethodPost, "/api/v1/auth/login", `{"username":"admin","password":"s3cret-pass"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.AccessToken == "" {
		t.Fatalf("login body = %s", w.Body.String())
	}

	if w := serve(engine, http.MethodGet, "/api/v1/events", "", login.AccessToken); w.Code != http.StatusOK {
		t.Fatalf("authorized list = %d", w.Code)
	}
	w = serve(engine, http.MethodGet, "/api/v1/auth/me", "", login.AccessToken)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"username":"admin"`) {
		t.Fatalf("me = %d %s", w.Code, w.Body.String())
	}
}

func TestSetupRejectsShortSecret(t *testing.T) {
	cfg := baseConfig()
	cfg.OperatorPassword = "pw"
	cfg.JWTSecret = "short"

	store := repositories.NewStore(database.NewXLSXBackend(t.TempDir() + "/x.xlsx"))
	if err := Setup(gin.New(), store, cfg); err == nil {
		t.Fatal("expected Setup to fail with a short JWT secret")
	}
}
