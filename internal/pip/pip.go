// 包 pip：点入多边形判定（射线法 / 奇偶规则），纯计算无阻塞，可并发调用
package pip

import (
	"balloon-geo/internal/boundary"
	"math"
)

// 文档注释：区域包含判定
// 背景：对每个环组独立执行射线法；MultiPolygon 任一环组命中即视为包含。
// 约束：仅外环参与判定（洞不排除）；点恰在边界上的结果不作保证。
func Contains(r boundary.Region, lat, lon float64) bool {
	for _, g := range r.Groups {
		if RingContains(g.Ring, lat, lon) {
			return true
		}
	}
	return false
}

// 文档注释：单环射线法
// 背景：沿水平扫描线统计穿越次数；步进顺序固定：自 v[0] 起，i 取 1..n，第 n 步经 v[i%n] 回到首点。
// 约束：水平边（p1y==p2y）不重算 xinters，沿用上一条非水平边的值；首条边即为水平边时 xinters 为 NaN，比较恒为假。
// 该行为需保持原样以保证跨实现可复现，边界点结果未定义。
func RingContains(ring boundary.Ring, lat, lon float64) bool {
	n := len(ring)
	if n == 0 {
		return false
	}
	x, y := lon, lat
	inside := false
	xinters := math.NaN()
	p1x, p1y := ring[0].Lon, ring[0].Lat
	for i := 1; i <= n; i++ {
		p2 := ring[i%n]
		p2x, p2y := p2.Lon, p2.Lat
		if y > math.Min(p1y, p2y) && y <= math.Max(p1y, p2y) && x <= math.Max(p1x, p2x) {
			if p1y != p2y {
				xinters = (y-p1y)*(p2x-p1x)/(p2y-p1y) + p1x
			}
			if p1x == p2x || x <= xinters {
				inside = !inside
			}
		}
		p1x, p1y = p2x, p2y
	}
	return inside
}

// 快速包围盒过滤（闭区间）
func InBBox(b [4]float64, lat, lon float64) bool {
	return lon >= b[0] && lon <= b[2] && lat >= b[1] && lat <= b[3]
}
