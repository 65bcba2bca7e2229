package handler

import (
	"hotel/config"
	"hotel/di"
	"hotel/shared/logger"
	"hotel/transport/http"
	nethttp "net/http"
	"sync"
)

var (
	service *http.HTTP
	once    sync.Once
)

// Handler is the serverless entrypoint. The service graph is built on the first request and
// reused by warm invocations.
func Handler(w nethttp.ResponseWriter, r *nethttp.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	service.ServeHTTP(w, r)
}
