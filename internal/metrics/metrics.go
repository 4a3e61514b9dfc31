package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_resolve_total",
		Help: "Total country resolutions by final stage",
	}, []string{"stage"})
	ResolveDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "revgeo_resolve_duration_ms",
		Help:    "Country resolution duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	UnknownResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revgeo_unknown_results_total",
		Help: "Total resolutions ending in Unknown",
	})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_cache_hits_total",
		Help: "Total resolution cache hits",
	}, []string{"backend"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_cache_misses_total",
		Help: "Total resolution cache misses",
	}, []string{"backend"})
	CachePersistErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_cache_persist_errors_total",
		Help: "Total resolution cache write failures",
	}, []string{"backend"})
	StrategySelected = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "revgeo_strategy_selected",
		Help: "Local strategy chosen at startup (1 for the active one)",
	}, []string{"strategy"})
	StrategyResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_strategy_resolve_total",
		Help: "Local strategy lookups by result",
	}, []string{"strategy", "result"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_provider_requests_total",
		Help: "Total remote provider requests",
	}, []string{"provider"})
	ProviderSuccessTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_provider_success_total",
		Help: "Total remote provider requests yielding a country",
	}, []string{"provider"})
	ProviderFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revgeo_provider_fail_total",
		Help: "Total remote provider failures (timeout, status, payload, empty)",
	}, []string{"provider"})
	ProviderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "revgeo_provider_duration_ms",
		Help:    "Remote provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	}, []string{"provider"})
)

func init() {
	prometheus.MustRegister(ResolveTotal)
	prometheus.MustRegister(ResolveDurationMs)
	prometheus.MustRegister(UnknownResultsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(CachePersistErrorsTotal)
	prometheus.MustRegister(StrategySelected)
	prometheus.MustRegister(StrategyResolveTotal)
	prometheus.MustRegister(ProviderRequestsTotal)
	prometheus.MustRegister(ProviderSuccessTotal)
	prometheus.MustRegister(ProviderFailTotal)
	prometheus.MustRegister(ProviderDurationMs)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
