package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rushmax/internal/api/apierr"
	"github.com/mcoot/rushmax/internal/metrics"
	"github.com/mcoot/rushmax/internal/middleware"
)

// Recovery turns handler panics into INTERNAL_ERROR responses and counts them per route
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	metrics.HTTPPanicsTotal.WithLabelValues(routeTemplate(r)).Inc()
	apierr.WriteError(w, apierr.NewInternalError())
}

// routeTemplate returns the matched mux path template, keeping ids out of metric labels
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
