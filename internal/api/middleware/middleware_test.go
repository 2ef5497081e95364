package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rushmax/internal/dependencies/mocks"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/registry"
	logtest "github.com/mcoot/rushmax/internal/testutil"
)

type MiddlewareSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	registry *registry.Service
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = registry.New(s.clock, registry.DefaultConfig(), logtest.NopLogger())
}

func (s *MiddlewareSuite) serve(req *http.Request) (*httptest.ResponseRecorder, *model.Player) {
	var seen *model.Player
	h := Auth(s.registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = MustGetPlayer(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func (s *MiddlewareSuite) TestAuthByBearerToken() {
	p, err := s.registry.Register(context.Background(), "alice")
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+p.SessionToken)
	rec, seen := s.serve(req)

	s.Equal(http.StatusNoContent, rec.Code)
	s.Require().NotNil(seen)
	s.Equal(p.ID, seen.ID)
}

func (s *MiddlewareSuite) TestAuthCountsAsHeartbeat() {
	p, err := s.registry.Register(context.Background(), "alice")
	s.Require().NoError(err)
	s.clock.Advance(5 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(PlayerIDHeader, string(p.ID))
	_, seen := s.serve(req)

	s.Require().NotNil(seen)
	s.Equal(s.clock.Now(), seen.LastActiveAt)
}

func (s *MiddlewareSuite) TestAuthRejectsMissingCredentials() {
	rec, seen := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Nil(seen)
}

func (s *MiddlewareSuite) TestAuthRejectsUnknownPlayer() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(PlayerIDHeader, "ghost")
	rec, seen := s.serve(req)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Nil(seen)
}

func (s *MiddlewareSuite) TestRecoveryCountsPanicsByRoute() {
	r := mux.NewRouter()
	r.Use(Recovery(logtest.NopLogger()))
	r.HandleFunc("/games/{id}/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	s.NotPanics(func() {
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/abc/boom", nil))
	})

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "INTERNAL_ERROR")

	scrape := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Contains(scrape.Body.String(), `rushmax_http_panics_total{route="/games/{id}/boom"}`)
}
