package main

import (
	"balloon-geo/internal/logger"
	"balloon-geo/internal/migrate"
	"balloon-geo/internal/rescache"
	"balloon-geo/internal/utils"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// 文档注释：历史缓存文件导入
// 背景：将 country_cache.json（{"lat,lon": "country"}）批量写入 redis 或 postgres，便于从文件缓存迁移到共享存储。
// 约束：IMPORT_TARGET 取 redis / postgres；键原样写入不重新取整；IMPORT_SKIP_UNKNOWN=true 时跳过 "Unknown" 条目。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	src := os.Getenv("COUNTRY_CACHE_PATH")
	if len(os.Args) > 1 {
		src = os.Args[1]
	}
	if src == "" {
		src = filepath.Join("data", "country_cache.json")
	}
	entries, err := rescache.LoadEntries(src)
	if err != nil {
		l.Error("import_source_error", "path", src, "err", err)
		os.Exit(1)
	}
	var w rescache.KeyWriter
	switch strings.ToLower(os.Getenv("IMPORT_TARGET")) {
	case "redis":
		rc := utils.OpenRedisFromEnv()
		defer rc.Close()
		w = rescache.NewRedis(rc, os.Getenv("REDIS_CACHE_HASH"))
	case "postgres":
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		w = rescache.NewPostgres(db)
	default:
		l.Error("import_target_missing", "hint", "IMPORT_TARGET=redis|postgres")
		os.Exit(1)
	}
	skipUnknown := os.Getenv("IMPORT_SKIP_UNKNOWN") == "true"
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ctx := context.Background()
	var written, failed, skipped int
	for _, k := range keys {
		c := entries[k]
		if skipUnknown && c == "Unknown" {
			skipped++
			continue
		}
		if err := w.PutKey(ctx, k, c); err != nil {
			failed++
			l.Error("import_put_error", "key", k, "err", err)
			continue
		}
		written++
	}
	l.Info("import_done", "source", src, "written", written, "failed", failed, "skipped", skipped)
	if failed > 0 {
		os.Exit(1)
	}
}
