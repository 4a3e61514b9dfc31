package strategy

import (
	"balloon-geo/internal/boundary"
	"balloon-geo/internal/pip"
)

// 文档注释：Pure 策略
// 背景：不做任何索引或预处理，按源顺序线性扫描所有区域并执行射线法；Precise 不可用时使用。
type Pure struct {
	name    string
	regions []boundary.Region
}

func NewPure(regions []boundary.Region) *Pure {
	return &Pure{name: string(VariantPure), regions: regions}
}

// Degraded 与 Pure 判定一致，区别仅在加载阶段：数据文件缺失时以空集合运行，始终返回 "Unknown"
func NewDegraded(regions []boundary.Region) *Pure {
	return &Pure{name: string(VariantDegraded), regions: regions}
}

func (p *Pure) Name() string { return p.name }

func (p *Pure) Regions() int { return len(p.regions) }

func (p *Pure) Resolve(lat, lon float64) string {
	for _, r := range p.regions {
		if pip.Contains(r, lat, lon) {
			return observe(p.name, r.Name)
		}
	}
	return observe(p.name, boundary.UnknownName)
}
