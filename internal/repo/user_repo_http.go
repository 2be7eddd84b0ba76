package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-gin-user-console/internal/core/logger"
	"go-gin-user-console/internal/domain"
)

var (
	upstreamReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "upstream_requests_total", Help: "Count of calls to the users API"},
		[]string{"op", "outcome"},
	)
	upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of calls to the users API",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"},
	)
)

func init() { prometheus.MustRegister(upstreamReqTotal, upstreamLatency) }

// StatusError 远端返回非 2xx
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Body)
}

// UserRepo 远端 users 资源的 REST 客户端；不重试、不去重
type UserRepo struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

func NewUserRepo(baseURL string, hc *http.Client, l *zap.Logger) *UserRepo {
	if hc == nil {
		hc = &http.Client{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &UserRepo{base: strings.TrimRight(baseURL, "/"), hc: hc, log: l}
}

var _ domain.UserAPI = (*UserRepo)(nil)

func (r *UserRepo) List(ctx context.Context) ([]domain.Record, error) {
	var out []domain.Record
	if err := r.do(ctx, "list", http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepo) Get(ctx context.Context, id domain.ID) (*domain.Record, error) {
	var out domain.Record
	if err := r.do(ctx, "get", http.MethodGet, "/users/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.Record) (*domain.Record, error) {
	u.ID = 0 // 由服务端分配
	var out domain.Record
	if err := r.do(ctx, "create", http.MethodPost, "/users", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) Update(ctx context.Context, id domain.ID, u domain.Record) (*domain.Record, error) {
	u.ID = id
	var out domain.Record
	if err := r.do(ctx, "update", http.MethodPut, "/users/"+id.String(), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id domain.ID) error {
	return r.do(ctx, "delete", http.MethodDelete, "/users/"+id.String(), nil, nil)
}

func (r *UserRepo) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		upstreamReqTotal.WithLabelValues(op, outcome).Inc()
		upstreamLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if in != nil {
		b, e := json.Marshal(in)
		if e != nil {
			return fmt.Errorf("%s: encode: %w", op, e)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	res, err := r.hc.Do(req)
	if err != nil {
		r.log.Warn("upstream call failed",
			zap.String("rid", logger.RequestID(ctx)),
			zap.String("op", op),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	r.log.Debug("upstream call",
		zap.String("rid", logger.RequestID(ctx)),
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", req.URL.String()),
		zap.Int("status", res.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		se := &StatusError{Op: op, Status: res.StatusCode, Body: strings.TrimSpace(string(snippet))}
		if res.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrNotFound, se)
		}
		return se
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}
