package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	jd "github.com/unkn0wn-root/jsondefaults"
	"github.com/unkn0wn-root/jsondefaults/codec"
	logruslog "github.com/unkn0wn-root/jsondefaults/log/logrus"
	sloglog "github.com/unkn0wn-root/jsondefaults/log/slog"
	zaplog "github.com/unkn0wn-root/jsondefaults/log/zap"
	pr "github.com/unkn0wn-root/jsondefaults/provider"
	"github.com/unkn0wn-root/jsondefaults/provider/bigcache"
	"github.com/unkn0wn-root/jsondefaults/provider/redis"
	"github.com/unkn0wn-root/jsondefaults/provider/ristretto"
	"github.com/unkn0wn-root/jsondefaults/sloghooks"
	"github.com/unkn0wn-root/jsondefaults/store"
)

// newLogger builds the bench logger for the configured backend. Logs go to w
// so they never mix with the table on stdout. The returned func flushes.
func newLogger(cfg LoggingConfig, w io.Writer) (jd.Logger, func(), error) {
	switch cfg.Backend {
	case "zap":
		config := zap.NewProductionConfig()
		if cfg.Verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		enc := zapcore.NewJSONEncoder(config.EncoderConfig)
		core := zapcore.NewCore(enc, zapcore.AddSync(w), config.Level)
		l := zap.New(core).Named("dcbench")
		return zaplog.ZapLogger{L: l}, func() { _ = l.Sync() }, nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		if cfg.Verbose {
			l.SetLevel(logrus.DebugLevel)
		}
		return logruslog.New(l, "dcbench"), func() {}, nil
	case "slog":
		return sloglog.Logger{L: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(cfg)}))}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
}

func slogLevel(cfg LoggingConfig) slog.Level {
	if cfg.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// newHooks reports trial and history events as slog text lines on w.
func newHooks(cfg LoggingConfig, w io.Writer) jd.Hooks {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(cfg)})
	return sloghooks.New(slog.New(h), sloghooks.Options{})
}

func historyCodec(name string) (codec.Codec[jd.Report], error) {
	switch name {
	case "msgpack":
		return codec.Msgpack[jd.Report]{}, nil
	case "cbor":
		return codec.NewCBOR[jd.Report](true, nil)
	}
	return nil, fmt.Errorf("unknown store codec %q", name)
}

// openHistory returns nil when cfg.Kind is "none". In-process stores only
// carry history between rounds of one invocation; redis keeps it across runs.
func openHistory(ctx context.Context, cfg StoreConfig, log jd.Logger, hooks jd.Hooks) (store.History[jd.Report], error) {
	var (
		p   pr.Provider
		seq store.Sequence
		err error
	)
	switch cfg.Kind {
	case "none", "":
		return nil, nil
	case "ristretto":
		p, err = ristretto.New(ristretto.Config{})
	case "bigcache":
		p, err = bigcache.New(ctx, bigcache.Config{
			LifeWindow:         cfg.TTL,
			Shards:             16,
			MaxEntriesInWindow: 1024,
			MaxEntrySize:       4096,
		})
	case "redis":
		var rp *redis.Redis
		rp, err = redis.Dial(ctx, cfg.RedisAddr)
		if err == nil {
			p = rp
			seq = store.NewRedisSequence(rp.Client(), cfg.Namespace, cfg.TTL)
		}
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Kind, err)
	}

	c, err := historyCodec(cfg.Codec)
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	h, err := store.New(store.Options[jd.Report]{
		Namespace: cfg.Namespace,
		Provider:  p,
		Codec:     c,
		Sequence:  seq,
		TTL:       cfg.TTL,
		MaxDecode: cfg.MaxDecode,
		Logger:    log,
		Hooks:     hooks,
	})
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	log.Debug("history opened", jd.Fields{"store": cfg.Kind, "codec": cfg.Codec, "namespace": cfg.Namespace})
	return h, nil
}
