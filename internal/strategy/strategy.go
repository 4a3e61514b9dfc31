// 包 strategy：坐标→国家名的本地解析策略（Precise / Pure / Degraded）
package strategy

import (
	"balloon-geo/internal/boundary"
	"balloon-geo/internal/logger"
	"balloon-geo/internal/metrics"
	"errors"
	"fmt"
)

// 文档注释：本地解析策略统一契约
// 背景：三种实现语义一致，仅几何预处理与加载失败策略不同；启动时确定性选择一次，查询期不再探测。
// 约束：Resolve 为纯计算，未命中返回 "Unknown"；实现需支持无锁并发读。
type Strategy interface {
	Name() string
	Resolve(lat, lon float64) string
	Regions() int
}

// Variant：策略变体名称，亦用于配置 GEO_STRATEGY
type Variant string

const (
	VariantPrecise  Variant = "precise"
	VariantPure     Variant = "pure"
	VariantDegraded Variant = "degraded"
)

var order = []Variant{VariantPrecise, VariantPure, VariantDegraded}

// ParseVariant：空串或未知值回退为 precise
func ParseVariant(s string) Variant {
	for _, v := range order {
		if string(v) == s {
			return v
		}
	}
	return VariantPrecise
}

// 文档注释：按能力选择最佳可用策略
// 背景：替代按依赖可用性隐式切换的做法；从 preferred 开始按 Precise → Pure → Degraded 依次尝试构建，首个成功者即为进程内唯一策略。
// 返回：选中的策略；全部失败时返回 nil 与合并后的错误，调用方应跳过本地解析。
func Select(path string, preferred Variant) (Strategy, error) {
	start := 0
	for i, v := range order {
		if v == preferred {
			start = i
		}
	}
	var errs []error
	for _, v := range order[start:] {
		s, err := Open(v, path)
		if err != nil {
			logger.L().Warn("strategy_unavailable", "strategy", string(v), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", v, err))
			continue
		}
		logger.L().Info("strategy_selected", "strategy", s.Name(), "regions", s.Regions())
		metrics.StrategySelected.WithLabelValues(s.Name()).Set(1)
		return s, nil
	}
	return nil, errors.Join(errs...)
}

// Open：构建指定变体
func Open(v Variant, path string) (Strategy, error) {
	switch v {
	case VariantPrecise:
		regions, err := boundary.Load(path)
		if err != nil {
			return nil, err
		}
		return NewPrecise(regions)
	case VariantPure:
		regions, err := boundary.Load(path)
		if err != nil {
			return nil, err
		}
		return NewPure(regions), nil
	case VariantDegraded:
		regions, err := boundary.LoadOrEmpty(path)
		if err != nil {
			return nil, err
		}
		return NewDegraded(regions), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", v)
}

func observe(name, country string) string {
	res := "hit"
	if country == boundary.UnknownName {
		res = "miss"
	}
	metrics.StrategyResolveTotal.WithLabelValues(name, res).Inc()
	return country
}
