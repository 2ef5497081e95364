package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/mcoot/rushmax/internal/testutil"
)

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kettle", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"size":15`)
	assert.Contains(t, buf.String(), `"path":"/kettle"`)
}

func TestRecoveryCallsHandler(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	called := false
	h := Recovery(logger, func(w http.ResponseWriter, r *http.Request, err any) {
		called = true
		w.WriteHeader(http.StatusInternalServerError)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.True(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecoveryReraisesAbortHandler(t *testing.T) {
	called := false
	h := Recovery(testutil.NopLogger(), func(w http.ResponseWriter, r *http.Request, err any) {
		called = true
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.False(t, called)
}

func TestLoggingLevelFollowsStatus(t *testing.T) {
	cases := map[string]struct {
		path   string
		status int
		level  string
	}{
		"ok":           {"/api/v1/stats", http.StatusOK, `"level":"INFO"`},
		"health":       {"/api/v1/health", http.StatusOK, `"level":"DEBUG"`},
		"client error": {"/api/v1/rooms", http.StatusBadRequest, `"level":"WARN"`},
		"server error": {"/api/v1/rooms", http.StatusBadGateway, `"level":"ERROR"`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			logger, buf := testutil.CaptureLogger()
			h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Contains(t, buf.String(), tc.level)
		})
	}
}

func TestLoggingIncludesRouteTemplate(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	r := mux.NewRouter()
	r.Use(Logging(logger))
	r.HandleFunc("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms/abc", nil))
	assert.Contains(t, buf.String(), `"route":"/rooms/{id}"`)
}
