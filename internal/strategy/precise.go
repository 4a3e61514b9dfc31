package strategy

import (
	"balloon-geo/internal/boundary"
	"balloon-geo/internal/pip"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tidwall/rtree"
)

var ErrIndexBuild = errors.New("index build failed")

type groupRef struct {
	region int
	group  int
}

// 文档注释：Precise 策略（R-Tree 预处理）
// 背景：按环组包围盒建立 R-Tree，查询时仅对候选环组执行射线法，适合大量重复查询。
// 约束：候选按 (区域序号, 环组序号) 重新排序后判定，保证与线性扫描一致的“先命中者优先”；包围盒过滤不改变判定结果。
type Precise struct {
	regions []boundary.Region
	tr      rtree.RTreeG[groupRef]
}

func NewPrecise(regions []boundary.Region) (*Precise, error) {
	p := &Precise{regions: regions}
	for ri, r := range regions {
		for gi, g := range r.Groups {
			if len(g.Ring) == 0 {
				continue
			}
			for _, pt := range g.Ring {
				if !finite(pt.Lon) || !finite(pt.Lat) {
					return nil, fmt.Errorf("%w: region %d (%s) group %d has non-finite vertex", ErrIndexBuild, ri, r.Name, gi)
				}
			}
			b := g.BBox
			p.tr.Insert([2]float64{b[0], b[1]}, [2]float64{b[2], b[3]}, groupRef{region: ri, group: gi})
		}
	}
	return p, nil
}

func (p *Precise) Name() string { return string(VariantPrecise) }

func (p *Precise) Regions() int { return len(p.regions) }

func (p *Precise) Resolve(lat, lon float64) string {
	pt := [2]float64{lon, lat}
	var cands []groupRef
	p.tr.Search(pt, pt, func(_, _ [2]float64, ref groupRef) bool {
		cands = append(cands, ref)
		return true
	})
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].region != cands[j].region {
			return cands[i].region < cands[j].region
		}
		return cands[i].group < cands[j].group
	})
	for _, c := range cands {
		r := p.regions[c.region]
		if pip.RingContains(r.Groups[c.group].Ring, lat, lon) {
			return observe(p.Name(), r.Name)
		}
	}
	return observe(p.Name(), boundary.UnknownName)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
