// 包 revgeo：国家解析编排（缓存 → 本地策略 → 远程兜底链 → 写缓存）
package revgeo

import (
	"balloon-geo/internal/boundary"
	"balloon-geo/internal/logger"
	"balloon-geo/internal/metrics"
	"context"
	"math"
	"time"
)

// Local：本地解析策略的最小契约（strategy.Strategy 满足此接口）
type Local interface {
	Name() string
	Resolve(lat, lon float64) string
}

// Remote：远程兜底链的最小契约（remote.Resolver 满足此接口）
type Remote interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

// Cache：解析缓存的最小契约（rescache.Store 满足此接口）
type Cache interface {
	Backend() string
	Get(ctx context.Context, lat, lon float64) (string, bool)
	Put(ctx context.Context, lat, lon float64, country string) error
}

// 文档注释：编排器构造参数
// 背景：显式注入各依赖，由进程入口负责初始化与生命周期，不再依赖进程级全局单例。
// 约束：Local/Remote/Cache 均可为 nil，对应阶段直接跳过；CacheUnknown 控制是否缓存 "Unknown"，避免同一格反复走网络。
type Options struct {
	Local        Local
	Remote       Remote
	Cache        Cache
	CacheUnknown bool
	SkipLocal    bool
}

// Orchestrator：对外提供全函数式的国家解析；只读依赖可被并发调用
type Orchestrator struct {
	local        Local
	remote       Remote
	cache        Cache
	cacheUnknown bool
	skipLocal    bool
}

func NewOrchestrator(o Options) *Orchestrator {
	orch := &Orchestrator{local: o.Local, remote: o.Remote, cache: o.Cache, cacheUnknown: o.CacheUnknown, skipLocal: o.SkipLocal}
	localName := "none"
	if o.Local != nil && !o.SkipLocal {
		localName = o.Local.Name()
	}
	cacheName := "none"
	if o.Cache != nil {
		cacheName = o.Cache.Backend()
	}
	logger.L().Info("revgeo_orchestrator_ready", "local", localName, "remote", o.Remote != nil, "cache", cacheName, "cache_unknown", o.CacheUnknown)
	return orch
}

// 文档注释：坐标 → 国家名
// 背景：单次查询的状态流转为 CacheCheck → LocalResolve → RemoteResolve → Persisted；缓存命中即终止。
// 约束：从不返回错误，最坏结果为 "Unknown"；策略内部 panic 视为本阶段失败；ctx 取消后返回 "Unknown" 且不写缓存。
// 相同新坐标的并发查询不做合并，可能各自走完整远程链。
func (o *Orchestrator) ResolveCountry(ctx context.Context, lat, lon float64) string {
	t0 := time.Now()
	defer func() { metrics.ResolveDurationMs.Observe(float64(time.Since(t0).Milliseconds())) }()
	if !validCoord(lat, lon) {
		logger.L().Debug("revgeo_invalid_coord", "lat", lat, "lon", lon)
		return o.finish("invalid", boundary.UnknownName)
	}
	if o.cache != nil {
		if c, ok := o.cache.Get(ctx, lat, lon); ok {
			metrics.CacheHitsTotal.WithLabelValues(o.cache.Backend()).Inc()
			return o.finish("cache", c)
		}
		metrics.CacheMissesTotal.WithLabelValues(o.cache.Backend()).Inc()
	}
	stage := "local"
	country := o.resolveLocal(lat, lon)
	if country == boundary.UnknownName && o.remote != nil {
		stage = "remote"
		country = o.resolveRemote(ctx, lat, lon)
		if ctx.Err() != nil {
			logger.L().Debug("revgeo_cancelled", "lat", lat, "lon", lon, "err", ctx.Err())
			return o.finish("cancelled", boundary.UnknownName)
		}
	}
	o.persist(ctx, lat, lon, country)
	return o.finish(stage, country)
}

// ResolveCountryFunc：上游调用方使用的无 ctx 形式
func (o *Orchestrator) ResolveCountryFunc() func(lat, lon float64) string {
	return func(lat, lon float64) string { return o.ResolveCountry(context.Background(), lat, lon) }
}

func (o *Orchestrator) resolveLocal(lat, lon float64) (country string) {
	if o.local == nil || o.skipLocal {
		return boundary.UnknownName
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.L().Error("local_strategy_panic", "strategy", o.local.Name(), "lat", lat, "lon", lon, "panic", rec)
			country = boundary.UnknownName
		}
	}()
	country = o.local.Resolve(lat, lon)
	if country == "" {
		country = boundary.UnknownName
	}
	return country
}

func (o *Orchestrator) resolveRemote(ctx context.Context, lat, lon float64) (country string) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.L().Error("remote_chain_panic", "lat", lat, "lon", lon, "panic", rec)
			country = boundary.UnknownName
		}
	}()
	country = o.remote.Resolve(ctx, lat, lon)
	if country == "" {
		country = boundary.UnknownName
	}
	return country
}

func (o *Orchestrator) persist(ctx context.Context, lat, lon float64, country string) {
	if o.cache == nil {
		return
	}
	if country == boundary.UnknownName && !o.cacheUnknown {
		return
	}
	if err := o.cache.Put(ctx, lat, lon, country); err != nil {
		metrics.CachePersistErrorsTotal.WithLabelValues(o.cache.Backend()).Inc()
		logger.L().Warn("cache_persist_error", "backend", o.cache.Backend(), "lat", lat, "lon", lon, "err", err)
	}
}

func (o *Orchestrator) finish(stage, country string) string {
	metrics.ResolveTotal.WithLabelValues(stage).Inc()
	if country == boundary.UnknownName {
		metrics.UnknownResultsTotal.Inc()
	}
	return country
}

func validCoord(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
