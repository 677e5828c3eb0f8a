package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewRouter registers the operations endpoints and wraps them in middleware,
// outermost first.
func NewRouter(ops *OpsHandler, middleware ...func(http.Handler) http.Handler) http.Handler {
	router := httprouter.New()
	router.GET("/healthz", ops.Health)
	router.GET("/sessions", ops.Sessions)
	router.GET("/journal", ops.Journal)

	var handler http.Handler = router
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}
