package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Validator is implemented by every persisted record type.
type Validator interface {
	Validate() error
}

func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// Load decodes the value under key on top of fallback, so fields absent
// from the stored JSON keep their fallback values. A missing key returns
// fallback silently; a read or decode failure is logged and also
// returns fallback.
func Load[T any](kv KV, log *slog.Logger, key string, fallback T) T {
	raw, ok, err := kv.Get(key)
	if err != nil {
		logger(log).Warn("read failed, using default", "key", key, "error", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	v := fallback
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger(log).Warn("corrupt value, using default", "key", key, "error", err)
		return fallback
	}
	return v
}

// LoadList decodes a JSON array under key and drops records that fail
// validation.
func LoadList[T Validator](kv KV, log *slog.Logger, key string) []T {
	return Keep(log, key, Load[[]T](kv, log, key, nil))
}

// Keep filters out invalid records, logging each one dropped. The
// result is never nil.
func Keep[T Validator](log *slog.Logger, key string, items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			logger(log).Warn("dropping invalid record", "key", key, "error", err)
			continue
		}
		out = append(out, item)
	}
	return out
}

// Encode marshals v into a put operation for key.
func Encode(key string, v any) (Op, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Op{}, fmt.Errorf("encode %q: %w", key, err)
	}
	return PutOp(key, string(data)), nil
}

// Save marshals v and writes it under key.
func Save(kv KV, key string, v any) error {
	op, err := Encode(key, v)
	if err != nil {
		return err
	}
	return kv.Apply(op)
}
