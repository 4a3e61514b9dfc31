package remote

import (
	"balloon-geo/internal/logger"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultUserAgent = "Windborne-Balloon-Tracker/1.0"

// 文档注释：从环境变量构建远程兜底链
// 背景：REMOTE_PROVIDERS 决定顺序（默认 nominatim,bigdatacloud,geocodexyz），"none" 表示不启用远程；
// EXT_PROVIDER_URL 存在时追加模板服务，字段路径取 EXT_PROVIDER_PATH（默认 country）。
// 约束：未知名称记录日志后忽略；REMOTE_TIMEOUT_S 为单次调用超时秒数。
func ResolverFromEnv() *Resolver {
	timeout := DefaultTimeout
	if s := os.Getenv("REMOTE_TIMEOUT_S"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f > 0 {
			timeout = time.Duration(f * float64(time.Second))
		}
	}
	client := &http.Client{Timeout: timeout}
	names := os.Getenv("REMOTE_PROVIDERS")
	if names == "" {
		names = "nominatim,bigdatacloud,geocodexyz"
	}
	var ps []Provider
	for _, n := range strings.Split(names, ",") {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "", "none":
		case "nominatim":
			ua := os.Getenv("NOMINATIM_USER_AGENT")
			if ua == "" {
				ua = defaultUserAgent
			}
			ps = append(ps, Nominatim(os.Getenv("NOMINATIM_URL"), ua, client))
		case "bigdatacloud":
			ps = append(ps, BigDataCloud(os.Getenv("BIGDATACLOUD_URL"), client))
		case "geocodexyz":
			ps = append(ps, GeocodeXYZ(os.Getenv("GEOCODEXYZ_URL"), client))
		default:
			logger.L().Warn("provider_unknown", "name", n)
		}
	}
	if tmpl := os.Getenv("EXT_PROVIDER_URL"); tmpl != "" {
		name := os.Getenv("EXT_PROVIDER_NAME")
		if name == "" {
			name = "ext"
		}
		path := os.Getenv("EXT_PROVIDER_PATH")
		if path == "" {
			path = "country"
		}
		ps = append(ps, Template(name, tmpl, path, client))
	}
	r := NewResolver(timeout, ps...)
	logger.L().Info("remote_chain_ready", "providers", r.Providers(), "timeout_ms", timeout.Milliseconds())
	return r
}
