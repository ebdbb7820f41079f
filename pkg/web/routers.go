package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	limiter "github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/aksjaiswal/stanverse/pkg/settings"
)

func (s *server) strapRouter() {

	s.ar.Get("/ping", handlerPing)

	s.ar.Route("/api", func(r chi.Router) {
		if rate, err := limiter.NewRateFromFormatted(settings.Current.RateLimit); err == nil {
			lm := mhttp.NewMiddleware(limiter.New(memory.NewStore(), rate))
			r.Use(lm.Handler)
		} else {
			logger().Infow("parse rate limit fail", "rate", settings.Current.RateLimit, "err", err)
		}

		r.Get("/models", s.getModels)
		r.Get("/welcome", s.getWelcome)
		r.Get("/history", s.getHistory)
		r.Post("/chat", s.postChat)
		r.Post("/chat-{suffix}", s.postChat)
		r.Post("/clear", s.postClear)
	})

	if s.cfg.DocHandler != nil {
		s.ar.Get("/", s.cfg.DocHandler.ServeHTTP)
		s.ar.NotFound(s.cfg.DocHandler.ServeHTTP)
	}
}

func handlerPing(w http.ResponseWriter, r *http.Request) {
	render.Data(w, r, []byte("Pong\n"))
}
