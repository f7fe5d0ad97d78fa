package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/middleware"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

var (
	testCompanyID = uuid.MustParse("8d1f7c3a-5b4e-4a63-9f0e-2c7d9b1a4e55")
	testUserID    = uuid.MustParse("3c9a2e71-0d8b-4f6a-b5c2-7e1d4a9f8b30")
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withIdentity stands in for the Auth middleware
func withIdentity(c *gin.Context) {
	c.Set(middleware.CompanyIDKey, testCompanyID)
	c.Set(middleware.UserIDKey, testUserID)
	c.Set(middleware.RequestIDKey, "req-test")
	c.Next()
}

// newTestEngine mounts one module group at /api/v1 behind withIdentity
func newTestEngine(module string, routes func(*router.DomainGroup)) *gin.Engine {
	engine := gin.New()
	engine.Use(withIdentity)
	r := router.NewRouter(engine)
	g := router.NewDomainGroup(module, "/"+module)
	routes(g)
	r.Register(g)
	r.Setup()
	return engine
}

func performRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// envelope mirrors dto.Response with the data left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
}
