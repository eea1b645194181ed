package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a store backend.
type Options struct {
	Backend     string
	Home        string
	Key         string
	RedisURL    string
	RedisPrefix string
}

// Open builds a Store for opts. The returned close func releases backend
// connections and is never nil.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (*Store, func() error, error) {
	noop := func() error { return nil }

	key, err := LoadKey(opts.Key, filepath.Join(opts.Home, "store.key"))
	if err != nil {
		return nil, noop, err
	}

	switch opts.Backend {
	case "", BackendFile:
		kv := NewFileKV(filepath.Join(opts.Home, "session.json"))
		log.Debug().Str("path", kv.Path()).Msg("session store: file")
		return New(kv, key, log), noop, nil
	case BackendMemory:
		log.Debug().Msg("session store: memory")
		return New(NewMemoryKV(), key, log), noop, nil
	case BackendRedis:
		client, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		log.Debug().Str("prefix", opts.RedisPrefix).Msg("session store: redis")
		return New(NewRedisKV(client, opts.RedisPrefix), key, log), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
