// Package zap adapts a *zap.Logger to jsondefaults.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/jsondefaults"
	"go.uber.org/zap"
)

var _ jsondefaults.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f jsondefaults.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f jsondefaults.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f jsondefaults.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f jsondefaults.Fields) { z.L.Error(msg, zf(f)...) }

// zf emits fields in key order so log lines are stable between runs.
func zf(f jsondefaults.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
