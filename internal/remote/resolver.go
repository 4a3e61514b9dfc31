package remote

import (
	"balloon-geo/internal/boundary"
	"balloon-geo/internal/logger"
	"balloon-geo/internal/metrics"
	"context"
	"fmt"
	"time"
)

const DefaultTimeout = 10 * time.Second

// 文档注释：远程兜底链
// 背景：按固定顺序依次尝试各服务，首个给出有效国家名的服务即为结果，其后的服务不再调用。
// 约束：每个服务每次调用仅尝试一次，无重试与退避；单次调用受独立超时约束，慢服务不会拖住整条链超过自身上限。
type Resolver struct {
	providers []Provider
	timeout   time.Duration
}

func NewResolver(timeout time.Duration, providers ...Provider) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{providers: providers, timeout: timeout}
}

// Providers：按调用顺序返回服务名
func (r *Resolver) Providers() []string {
	out := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p.Name())
	}
	return out
}

// 文档注释：远程解析
// 返回：首个有效国家名；全部失败、全部为空或 ctx 已取消时返回 "Unknown"。
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) string {
	for _, p := range r.providers {
		if ctx.Err() != nil {
			logger.L().Debug("remote_chain_cancelled", "lat", lat, "lon", lon, "err", ctx.Err())
			return boundary.UnknownName
		}
		c, err := r.try(ctx, p, lat, lon)
		if err != nil {
			logger.L().Debug("provider_fail", "provider", p.Name(), "lat", lat, "lon", lon, "err", err)
			continue
		}
		if c == "" || c == boundary.UnknownName {
			metrics.ProviderFailTotal.WithLabelValues(p.Name()).Inc()
			logger.L().Debug("provider_empty", "provider", p.Name(), "lat", lat, "lon", lon)
			continue
		}
		metrics.ProviderSuccessTotal.WithLabelValues(p.Name()).Inc()
		logger.L().Debug("provider_hit", "provider", p.Name(), "country", c)
		return c
	}
	return boundary.UnknownName
}

func (r *Resolver) try(ctx context.Context, p Provider, lat, lon float64) (country string, err error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	t0 := time.Now()
	metrics.ProviderRequestsTotal.WithLabelValues(p.Name()).Inc()
	defer func() {
		if rec := recover(); rec != nil {
			country, err = "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("panic: %v", rec)}
		}
		metrics.ProviderDurationMs.WithLabelValues(p.Name()).Observe(float64(time.Since(t0).Milliseconds()))
		if err != nil {
			metrics.ProviderFailTotal.WithLabelValues(p.Name()).Inc()
		}
	}()
	return p.Country(cctx, lat, lon)
}
