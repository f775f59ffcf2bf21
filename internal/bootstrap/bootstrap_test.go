package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMetrics "github.com/yigit/coursehub/internal/app/metrics"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/view"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func startAPI(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	deps, err := BuildDependencies(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	server := httptest.NewServer(WithCORS(cfg, SetupRouter(cfg, deps, zerolog.Nop())))
	t.Cleanup(server.Close)
	cfg.API.BaseURL = server.URL
	return server
}

func TestPingReportsSeededCatalog(t *testing.T) {
	cfg := testConfig(t)
	server := startAPI(t, cfg)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.PingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pong", body.Message)
	assert.Equal(t, 12, body.Courses)
}

func TestBuildDependencies_CacheSizeCapsCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.CourseCacheSize = 5

	deps, err := BuildDependencies(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 5, deps.CatalogService.Count())
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig(t)
	server := startAPI(t, cfg)

	resp, err := http.Get(server.URL + "/api/courses")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(server.URL + cfg.Metrics.Path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig(t)
	server := startAPI(t, cfg)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/courses/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "X-Auth, Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestCourseServiceAgainstDevAPI(t *testing.T) {
	cfg := testConfig(t)
	startAPI(t, cfg)

	m := appMetrics.New()
	svc, err := NewCourseService(cfg, zerolog.Nop(), m)
	require.NoError(t, err)

	courses, err := svc.LoadCourses().Await(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 10)

	saved, err := svc.SaveCourse(courses[0].WithDescription("Edited from the client")).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Edited from the client", saved.Description)

	reloaded, err := svc.LoadCourses().Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Edited from the client", reloaded[0].Description)

	unknown := courses[0]
	unknown.ID = 999
	_, err = svc.SaveCourse(unknown).Await(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrResponseStatus)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestAppDestroyCancelsDelayedLoad(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Delay = 2 * time.Second
	startAPI(t, cfg)

	var logs strings.Builder
	svc, err := NewCourseService(cfg, zerolog.Nop(), nil)
	require.NoError(t, err)

	app := view.NewApp(svc, zerolog.New(&logs))
	require.NoError(t, app.Init(context.Background()))
	time.Sleep(50 * time.Millisecond)

	assert.True(t, app.Destroy())
	time.Sleep(50 * time.Millisecond)

	assert.True(t, app.Courses().State().Loading)
	assert.Empty(t, logs.String())
}
