package rescache

import (
	"balloon-geo/internal/logger"
	"context"
	"errors"
	"strings"
)

// 文档注释：多级缓存
// 背景：按顺序查询各级，命中后回填更靠前的级别；写入所有级别。
type Tiered struct {
	stores []Store
}

func NewTiered(stores ...Store) *Tiered {
	var ss []Store
	for _, s := range stores {
		if s != nil {
			ss = append(ss, s)
		}
	}
	return &Tiered{stores: ss}
}

func (t *Tiered) Backend() string {
	names := make([]string, 0, len(t.stores))
	for _, s := range t.stores {
		names = append(names, s.Backend())
	}
	return strings.Join(names, "+")
}

func (t *Tiered) Get(ctx context.Context, lat, lon float64) (string, bool) {
	for i, s := range t.stores {
		c, ok := s.Get(ctx, lat, lon)
		if !ok {
			continue
		}
		for _, up := range t.stores[:i] {
			if err := up.Put(ctx, lat, lon, c); err != nil {
				logger.L().Warn("cache_backfill_error", "backend", up.Backend(), "err", err)
			}
		}
		return c, true
	}
	return "", false
}

func (t *Tiered) Put(ctx context.Context, lat, lon float64, country string) error {
	var errs []error
	for _, s := range t.stores {
		if err := s.Put(ctx, lat, lon, country); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
