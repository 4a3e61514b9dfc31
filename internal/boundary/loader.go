package boundary

import (
	"balloon-geo/internal/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// LoadError：边界数据源缺失或格式错误
// 约束：文件不存在时包装 fs.ErrNotExist，调用方可用 errors.Is 区分“缺失”与“损坏”。
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("boundary load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   *geometry      `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// 文档注释：加载国家边界数据集（GeoJSON FeatureCollection）
// 背景：进程启动时一次性读取，构建按源顺序排列的区域序列；Polygon 取第一环，MultiPolygon 每个子面取第一环。
// 约束：非 Polygon/MultiPolygon 几何静默跳过；文件缺失或 JSON 非法返回 *LoadError。
func Load(path string) ([]Region, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if fc.Features == nil && !strings.EqualFold(fc.Type, "FeatureCollection") {
		return nil, &LoadError{Path: path, Err: errors.New("not a feature collection")}
	}
	regions := make([]Region, 0, len(fc.Features))
	skipped := 0
	for i, f := range fc.Features {
		if f.Geometry == nil {
			skipped++
			continue
		}
		r, ok, err := parseRegion(f)
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("feature %d: %w", i, err)}
		}
		if !ok {
			skipped++
			continue
		}
		regions = append(regions, r)
	}
	logger.L().Debug("boundary_load_done", "path", path, "regions", len(regions), "skipped", skipped)
	return regions, nil
}

// 文档注释：降级加载
// 背景：降级策略要求数据文件缺失时仍可运行，缺失视为零个区域；这是降级策略独有的策略，其余调用方仍应使用 Load。
// 约束：仅对“文件不存在”宽容；格式错误照常返回错误。
func LoadOrEmpty(path string) ([]Region, error) {
	regions, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.L().Warn("boundary_missing_fallback_empty", "path", path)
			return []Region{}, nil
		}
		return nil, err
	}
	return regions, nil
}

func parseRegion(f feature) (Region, bool, error) {
	r := Region{Name: regionName(f.Properties)}
	switch f.Geometry.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return Region{}, false, err
		}
		r.Kind = KindPolygon
		if len(coords) > 0 {
			r.Groups = append(r.Groups, NewPolygon(toRing(coords[0])))
		}
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return Region{}, false, err
		}
		r.Kind = KindMultiPolygon
		for _, part := range coords {
			if len(part) > 0 {
				r.Groups = append(r.Groups, NewPolygon(toRing(part[0])))
			}
		}
	default:
		return Region{}, false, nil
	}
	return r, true, nil
}

// 位置不足两个分量时跳过；第三分量（高程）忽略
func toRing(raw [][]float64) Ring {
	ring := make(Ring, 0, len(raw))
	for _, p := range raw {
		if len(p) < 2 {
			continue
		}
		ring = append(ring, Point{Lon: p[0], Lat: p[1]})
	}
	return ring
}

// 名称优先级：NAME > ADMIN > name > Unknown；空串与非字符串视为缺失
func regionName(props map[string]any) string {
	for _, k := range []string{"NAME", "ADMIN", "name"} {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return UnknownName
}
