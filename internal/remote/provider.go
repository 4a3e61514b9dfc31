// 包 remote：外部反地理服务的有序兜底链
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

var (
	ErrStatus    = errors.New("unexpected status")
	ErrPayload   = errors.New("malformed payload")
	ErrNoCountry = errors.New("country field absent")
)

// ProviderError：单个服务的一次失败（超时、状态码、响应体、缺少字段），由兜底链吞掉并转向下一个服务
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("provider %s: %v", e.Provider, e.Err) }

func (e *ProviderError) Unwrap() error { return e.Err }

// 文档注释：反地理服务统一契约
// 约束：Country 必须尊重 ctx 的截止时间；返回空串时必须同时返回错误。
type Provider interface {
	Name() string
	Country(ctx context.Context, lat, lon float64) (string, error)
}

const maxBody = 1 << 20

// 文档注释：HTTP 反地理服务适配器
// 背景：各服务仅在 URL 构造、请求头与国家字段路径上不同；字段路径使用 gjson 语法（如 address.country）。
// 约束：仅接受 200；超时由调用方 ctx 控制，client 自身超时作为兜底。
type HTTPProvider struct {
	name     string
	buildURL func(lat, lon float64) string
	path     string
	header   http.Header
	client   *http.Client
}

func NewHTTPProvider(name string, buildURL func(lat, lon float64) string, path string, header http.Header, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{name: name, buildURL: buildURL, path: path, header: header, client: client}
}

func (h *HTTPProvider) Name() string { return h.name }

func (h *HTTPProvider) Country(ctx context.Context, lat, lon float64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.buildURL(lat, lon), nil)
	if err != nil {
		return "", &ProviderError{Provider: h.name, Err: err}
	}
	for k, vs := range h.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: h.name, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return "", &ProviderError{Provider: h.name, Err: fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &ProviderError{Provider: h.name, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return "", &ProviderError{Provider: h.name, Err: ErrPayload}
	}
	v := gjson.GetBytes(body, h.path)
	if !v.Exists() || v.Type != gjson.String || strings.TrimSpace(v.String()) == "" {
		return "", &ProviderError{Provider: h.name, Err: ErrNoCountry}
	}
	return strings.TrimSpace(v.String()), nil
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// 内置服务默认地址
const (
	NominatimURL    = "https://nominatim.openstreetmap.org/reverse"
	BigDataCloudURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	GeocodeXYZURL   = "https://geocode.xyz"
)

// Nominatim：OpenStreetMap 反地理，免密钥；使用策略要求携带可识别的 User-Agent
func Nominatim(baseURL, userAgent string, client *http.Client) *HTTPProvider {
	if baseURL == "" {
		baseURL = NominatimURL
	}
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	return NewHTTPProvider("nominatim", func(lat, lon float64) string {
		return baseURL + "?lat=" + formatCoord(lat) + "&lon=" + formatCoord(lon) + "&format=json&addressdetails=1"
	}, "address.country", h, client)
}

// BigDataCloud：免费客户端反地理接口
func BigDataCloud(baseURL string, client *http.Client) *HTTPProvider {
	if baseURL == "" {
		baseURL = BigDataCloudURL
	}
	return NewHTTPProvider("bigdatacloud", func(lat, lon float64) string {
		return baseURL + "?latitude=" + formatCoord(lat) + "&longitude=" + formatCoord(lon) + "&localityLanguage=en"
	}, "countryName", nil, client)
}

// GeocodeXYZ：坐标作为路径段传入
func GeocodeXYZ(baseURL string, client *http.Client) *HTTPProvider {
	if baseURL == "" {
		baseURL = GeocodeXYZURL
	}
	return NewHTTPProvider("geocodexyz", func(lat, lon float64) string {
		return baseURL + "/" + formatCoord(lat) + "," + formatCoord(lon) + "?json=1"
	}, "country", nil, client)
}

// Template：外部自定义服务，URL 模板中的 {lat} 与 {lon} 在请求时替换
func Template(name, tmpl, path string, client *http.Client) *HTTPProvider {
	return NewHTTPProvider(name, func(lat, lon float64) string {
		return strings.NewReplacer("{lat}", formatCoord(lat), "{lon}", formatCoord(lon)).Replace(tmpl)
	}, path, nil, client)
}
