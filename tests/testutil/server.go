package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/di"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/sqlite"
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
	"github.com/Hiro-mackay/pdfops/internal/interface/router"
	"github.com/Hiro-mackay/pdfops/internal/interface/validator"
	authcmd "github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
)

// DefaultPassword satisfies the account password rules
const DefaultPassword = "Password123"

// StaticGeoResolver resolves every address to the same location
type StaticGeoResolver struct {
	Location service.Location
}

// Resolve implements service.GeoResolver
func (r StaticGeoResolver) Resolve(context.Context, string) service.Location {
	return r.Location
}

// TestServer holds all test server dependencies
type TestServer struct {
	Echo      *echo.Echo
	DB        *sqlite.DB
	Redis     *redis.Client
	Container *di.Container
	Geo       *StaticGeoResolver
}

// NewTestServer creates a fully configured test server backed by in-memory SQLite
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	config := DefaultTestConfig()
	redisClient := SetupTestEnvironment(t)
	db := NewTestDB(t)
	geo := &StaticGeoResolver{Location: service.Location{Country: "Japan", State: "Tokyo"}}

	container, err := di.NewContainerWithOptions(context.Background(), config.AppConfig(), di.Options{
		SQLiteDB:    db,
		RedisClient: redisClient,
		GeoResolver: geo,
	})
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	container.InitUseCases()

	// Echo instance
	e := echo.New()
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Use(middleware.RequestID())

	router.NewRouter(e, di.NewHandlersForTest(container), di.NewMiddlewares(container)).Setup()

	return &TestServer{
		Echo:      e,
		DB:        db,
		Redis:     redisClient,
		Container: container,
		Geo:       geo,
	}
}

// Cleanup cleans up test data
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()
	TruncateTables(t, ts.DB, "pdf_operation_history", "users")
	FlushRedis(t, ts.Redis)
}

// Register registers a USER account and returns its access token
func (ts *TestServer) Register(t *testing.T, email string) string {
	t.Helper()

	resp := DoRequest(t, ts.Echo, HTTPRequest{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		Body: map[string]string{
			"firstName": "Test",
			"lastName":  "User",
			"email":     email,
			"password":  DefaultPassword,
		},
	}).AssertStatus(http.StatusCreated)

	token, _ := getJSONPath(resp.GetJSON(), "data.accessToken").(string)
	if token == "" {
		t.Fatalf("register response has no access token: %s", resp.Body.String())
	}
	return token
}

// CreateAdmin creates an ADMIN account and returns its access token
func (ts *TestServer) CreateAdmin(t *testing.T, email string) string {
	t.Helper()

	_, err := ts.Container.Auth.EnsureAdmin.Execute(context.Background(), authcmd.EnsureAdminInput{
		Email:     email,
		Password:  DefaultPassword,
		FirstName: "Admin",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return ts.Login(t, email)
}

// Login logs in with DefaultPassword and returns the access token
func (ts *TestServer) Login(t *testing.T, email string) string {
	t.Helper()

	resp := DoRequest(t, ts.Echo, HTTPRequest{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body: map[string]string{
			"email":    email,
			"password": DefaultPassword,
		},
	}).AssertStatus(http.StatusOK)

	token, _ := getJSONPath(resp.GetJSON(), "data.accessToken").(string)
	if token == "" {
		t.Fatalf("login response has no access token: %s", resp.Body.String())
	}
	return token
}
