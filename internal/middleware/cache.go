package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rosterd/rosterd/internal/config"
)

// captureWriter captures the response body and status while still
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey derives the Redis key from the concrete request path, never the
// route pattern: /api/workers/:id would collapse every worker onto one
// entry.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	path := r.URL.Path
	parts := []string{}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", path)
	case "method_route":
		parts = append(parts, "method", r.Method, "route", path)
	case "method_route_query":
		parts = append(parts, "method", r.Method, "route", path, "q", r.URL.RawQuery)
	default: // "route_query"
		parts = append(parts, "route", path, "q", r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes headerLen][headerJSON][body]
// so cache hits replay status, headers and body exactly as first served.
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful responses for the configured methods in
// Redis. It is applied to the roster service's public list endpoints where
// reads vastly outnumber writes. Only 2xx responses are stored. When Redis
// is unavailable the middleware is a no-op.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			key := cacheKey(cfg, c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
			cached, err := rdb.Get(ctx, key).Bytes()
			cancel()
			if err == nil {
				if status, hdr, body, ok := decodePayload(cached); ok {
					h := c.Response().Header()
					for k, vs := range hdr {
						for _, v := range vs {
							h.Add(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					return c.Blob(status, h.Get(echo.HeaderContentType), body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw

			if err := next(c); err != nil {
				return err
			}

			// Store only complete successful responses.
			if cw.status >= 200 && cw.status < 300 &&
				(cw.limit <= 0 || cw.size <= cw.limit) {
				payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
				if err == nil {
					ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
					_ = rdb.Set(ctx, key, payload, ttl).Err()
					cancel()
				}
			}
			return nil
		}
	}
}
