package boundary

// 文档注释：国家边界的最小数据结构
// 背景：只承载国家名与外环几何，常驻内存供点入多边形判定；加载后只读，可被并发查询共享。
// 约束：仅保留外环，洞不参与判定；同名区域不合并，按数据源顺序排列，查询时先命中者优先。
type Region struct {
	Name   string
	Kind   Kind
	Groups []Polygon
}

// Kind：源几何类型
type Kind int

const (
	KindPolygon Kind = iota
	KindMultiPolygon
)

func (k Kind) String() string {
	if k == KindMultiPolygon {
		return "MultiPolygon"
	}
	return "Polygon"
}

// Polygon：单个环组（仅外环）与其包围盒
type Polygon struct {
	Ring Ring
	BBox [4]float64 // minLon, minLat, maxLon, maxLat
}

// Ring：闭合边界，首尾隐式相连
type Ring []Point

// 点坐标（x=经度，y=纬度）
type Point struct {
	Lon float64
	Lat float64
}

// UnknownName：无法识别名称或未命中时的统一返回值
const UnknownName = "Unknown"

// NewPolygon：由外环构建环组并计算包围盒
func NewPolygon(r Ring) Polygon { return Polygon{Ring: r, BBox: computeBBox(r)} }

func computeBBox(r Ring) [4]float64 {
	b := [4]float64{180, 90, -180, -90}
	for _, pt := range r {
		if pt.Lon < b[0] {
			b[0] = pt.Lon
		}
		if pt.Lat < b[1] {
			b[1] = pt.Lat
		}
		if pt.Lon > b[2] {
			b[2] = pt.Lon
		}
		if pt.Lat > b[3] {
			b[3] = pt.Lat
		}
	}
	return b
}
