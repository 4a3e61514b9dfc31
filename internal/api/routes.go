// 包 api：集中注册 HTTP API 路由以解耦主入口
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Resolver：路由依赖的解析契约（revgeo.Orchestrator 满足此接口）
type Resolver interface {
	ResolveCountry(ctx context.Context, lat, lon float64) string
}

// Health：/health 返回的运行时信息
type Health struct {
	Strategy  string   `json:"strategy"`
	Regions   int      `json:"regions"`
	Providers []string `json:"providers"`
	Cache     string   `json:"cache"`
}

type countryResult struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type errorResult struct {
	Error string `json:"error"`
}

// 文档注释：构建 API 路由
// 背景：/country 是国家解析的唯一对外入口；参数非法返回 400，其余情况总是 200 且 country 非空。
func BuildRoutes(res Resolver, health Health) *http.ServeMux {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/country", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
		lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
		if err1 != nil || err2 != nil || !(lat >= -90 && lat <= 90) || !(lon >= -180 && lon <= 180) {
			writeJSON(w, http.StatusBadRequest, errorResult{Error: "lat must be in [-90,90] and lon in [-180,180]"})
			return
		}
		c := res.ResolveCountry(r.Context(), lat, lon)
		writeJSON(w, http.StatusOK, countryResult{Lat: lat, Lon: lon, Country: c})
	})
	apiMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, health)
	})
	return apiMux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
