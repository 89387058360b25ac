package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"

	"clipshare/cfg"
	"clipshare/svc/db"
	"clipshare/svc/lim"
	"clipshare/svc/svc"
	"clipshare/svc/util"
)

type Server struct {
	router     *chi.Mux
	account    *svc.Account
	clipboard  *svc.Clipboard
	cfg        *cfg.Cfg
	db         *db.SQLite
	httpServer *http.Server
}

func NewServer(c *cfg.Cfg, account *svc.Account, clipboard *svc.Clipboard, limiter *lim.Limiter, sqlDB *db.SQLite) *Server {
	r := chi.NewRouter()
	mw := NewMw(limiter, c)
	s := &Server{
		router:    r,
		account:   account,
		clipboard: clipboard,
		cfg:       c,
		db:        sqlDB,
		httpServer: &http.Server{
			Addr:           ":" + c.Port,
			Handler:        r,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 256 * 1024,
		},
	}
	r.Group(func(r chi.Router) {
		r.Use(mw.Recoverer)
		r.Get("/health", s.Health)
		r.Get("/ready", s.Ready)
		r.Handle("/metrics", promhttp.Handler())
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.Recoverer)
		r.Use(mw.RequestID)
		r.Use(hlog.NewHandler(util.GetLogger()))
		r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, dur time.Duration) {
			hlog.FromRequest(req).Info().
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Int("status", status).
				Int("size", size).
				Dur("duration", dur).
				Str("request_id", util.GetRequestID(req.Context())).
				Msg("http request")
		}))
		r.Use(mw.ContextTimeout)
		r.Use(mw.SecurityHeaders)
		r.Use(mw.CORS)

		hdl := &Hdl{account: account, clipboard: clipboard, cfg: c}
		r.Route("/api/auth", func(r chi.Router) {
			r.With(mw.RateLimit("login")).Post("/signup", hdl.Signup)
			r.With(mw.RateLimit("login")).Post("/login", hdl.Login)
			r.Post("/logout", hdl.Logout)
			r.Get("/me", hdl.Me)
		})
		r.Route("/api/clipboard", func(r chi.Router) {
			r.Use(hdl.RequireUser)
			r.Get("/", hdl.ListItems)
			r.Post("/", hdl.CreateItem)
			r.Get("/{id}", hdl.GetItem)
			r.Put("/{id}", hdl.UpdateItem)
			r.Delete("/{id}", hdl.DeleteItem)
			r.Post("/{id}/share", hdl.ShareItem)
			r.Delete("/{id}/share", hdl.UnshareItem)
		})
		r.With(mw.RateLimit("validate")).Post("/api/share/validate", hdl.ValidateShareCode)
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	util.Info().Str("port", s.cfg.Port).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		util.Error().Err(err).Str("port", s.cfg.Port).Msg("server failed to start")
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
