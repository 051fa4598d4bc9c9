package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/conorfennell/leitnerbox/internal/review"
	"github.com/conorfennell/leitnerbox/internal/web"
)

const GracefulShutdownTimeout = 10 * time.Second

// serve runs the web driver until ctx is cancelled.
func serve(ctx context.Context, addr string, session *review.Session, title string) error {
	handler, err := web.NewServer(session, title)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("got-quit-signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http-shutdown-failed")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", addr).Msg("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-idleConnsClosed
	log.Info().Msg("server-shut-down")
	return nil
}
