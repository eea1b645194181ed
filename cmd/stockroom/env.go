package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/naveenspark/stockroom/internal/auth"
	"github.com/naveenspark/stockroom/internal/config"
	"github.com/naveenspark/stockroom/internal/logger"
	"github.com/naveenspark/stockroom/internal/store"
	"github.com/naveenspark/stockroom/pkg/client"
)

// env is everything a command needs: settings, a logger, the session store
// and an auth manager restored from it.
type env struct {
	cfg  *config.Config
	log  zerolog.Logger
	auth *auth.Manager

	closers []func() error
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}

	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, f.Close)
	e.log = logger.New(logger.Options{Level: cfg.LogLevel, Output: f}).
		With().Str("version", version).Logger()

	st, closeStore, err := store.Open(ctx, store.Options{
		Backend:     cfg.Store.Backend,
		Home:        cfg.Home,
		Key:         cfg.Store.Key,
		RedisURL:    cfg.Store.RedisURL,
		RedisPrefix: cfg.Store.RedisPrefix,
	}, e.log)
	if err != nil {
		e.Close() //nolint:errcheck
		return nil, err
	}
	e.closers = append(e.closers, closeStore)

	api := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(e.log),
	)
	e.auth = auth.NewManager(api, st, e.log)
	s := e.auth.Restore(ctx)
	e.log.Debug().Str("api", cfg.APIURL).Str("state", s.State().String()).Msg("environment ready")
	return e, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
