// 程序入口：仅负责读取配置、初始化依赖并启动服务；解析逻辑在 internal/revgeo
package main

import (
	"balloon-geo/internal/api"
	"balloon-geo/internal/logger"
	"balloon-geo/internal/metrics"
	"balloon-geo/internal/migrate"
	"balloon-geo/internal/remote"
	"balloon-geo/internal/rescache"
	"balloon-geo/internal/revgeo"
	"balloon-geo/internal/strategy"
	"balloon-geo/internal/utils"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	boundaryPath := os.Getenv("BOUNDARY_PATH")
	if boundaryPath == "" {
		boundaryPath = filepath.Join("data", "items.json")
	}
	l.Debug("config_boundary_path", "path", boundaryPath)

	// 本地策略：启动时确定性选择一次，查询期不再探测
	var local revgeo.Local
	health := api.Health{Strategy: "none"}
	if s, err := strategy.Select(boundaryPath, strategy.ParseVariant(os.Getenv("GEO_STRATEGY"))); err == nil {
		local = s
		health.Strategy = s.Name()
		health.Regions = s.Regions()
	} else {
		l.Error("strategy_none_available", "err", err)
	}

	var rem revgeo.Remote
	if rr := remote.ResolverFromEnv(); len(rr.Providers()) > 0 {
		rem = rr
		health.Providers = rr.Providers()
	}

	var cache revgeo.Cache
	if c := openCache(l); c != nil {
		cache = c
		health.Cache = c.Backend()
	}

	orch := revgeo.NewOrchestrator(revgeo.Options{
		Local:        local,
		Remote:       rem,
		Cache:        cache,
		CacheUnknown: os.Getenv("CACHE_UNKNOWN") != "false",
		SkipLocal:    os.Getenv("SKIP_LOCAL") == "true",
	})

	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, api.BuildRoutes(orch, health)))
	mux.Handle(apiBase+"/metrics", metrics.Handler())

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	s := &http.Server{Addr: addr, Handler: logger.AccessMiddleware(l)(mux)}
	l.Info("listening", "addr", addr, "base", apiBase)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
}

// 文档注释：按 CACHE_BACKEND 构建缓存（file / redis / postgres / none，逗号分隔时按顺序组成多级缓存）
// 约束：单个后端初始化失败仅记录日志并跳过；全部失败时不启用缓存。
func openCache(l *slog.Logger) rescache.Store {
	backends := os.Getenv("CACHE_BACKEND")
	if backends == "" {
		backends = "file"
	}
	var stores []rescache.Store
	for _, b := range strings.Split(backends, ",") {
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "file":
			p := os.Getenv("COUNTRY_CACHE_PATH")
			if p == "" {
				p = filepath.Join("data", "country_cache.json")
			}
			stores = append(stores, rescache.OpenFile(p))
		case "redis":
			rc := utils.OpenRedisFromEnv()
			if err := rc.Ping(context.Background()).Err(); err != nil {
				l.Error("redis_ping_error", "err", err)
				continue
			}
			l.Info("redis_ping_ok")
			stores = append(stores, rescache.NewRedis(rc, os.Getenv("REDIS_CACHE_HASH")))
		case "postgres":
			db, err := utils.OpenPostgresFromEnv()
			if err != nil {
				l.Error("db_open_error", "err", err)
				continue
			}
			if err := db.Ping(); err != nil {
				l.Error("db_ping_error", "err", err)
				continue
			}
			if err := migrate.EnsureSchema(db); err != nil {
				l.Error("schema_error", "err", err)
				continue
			}
			l.Info("db_open_ok")
			stores = append(stores, rescache.NewPostgres(db))
		case "", "none":
		default:
			l.Error("cache_backend_unknown", "backend", b)
		}
	}
	switch len(stores) {
	case 0:
		l.Info("cache_disabled")
		return nil
	case 1:
		return stores[0]
	}
	return rescache.NewTiered(stores...)
}
