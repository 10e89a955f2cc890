package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/config"
	dbpkg "github.com/salon-natuerelle/salon-api/internal/db"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/handlers"
	"github.com/salon-natuerelle/salon-api/internal/models"
	"github.com/salon-natuerelle/salon-api/internal/routes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, dbpkg.Migrate(db))

	cfg := &config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		JWTExpireHours: 1,
		BcryptCost:     bcrypt.MinCost,
	}

	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, zerolog.Nop())

	return &testEnv{router: r, db: db, cfg: cfg}
}

// newUser inserts an account directly and returns it with a signed token,
// bypassing the registration endpoint so fixtures can carry any role.
func (e *testEnv) newUser(t *testing.T, r role.Role) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Secret1A"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        fmt.Sprintf("%s-%s@example.com", r, uuid.NewString()[:8]),
		PasswordHash: string(hashed),
		Role:         r.String(),
	}
	require.NoError(t, e.db.Create(&user).Error)

	token, err := handlers.SignToken(e.cfg, &user)
	require.NoError(t, err)

	return &user, token
}

func (e *testEnv) newService(t *testing.T, name string, creator uint) *models.Service {
	t.Helper()

	svc := models.Service{
		Name:        name,
		Description: "test service",
		Price:       30,
		DurationMin: 45,
		IsActive:    true,
		CreatedBy:   creator,
	}
	require.NoError(t, e.db.Create(&svc).Error)
	return &svc
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	msg, _ := decode(t, w)["error"].(string)
	return msg
}
