package rescache

import (
	"balloon-geo/internal/logger"
	"context"
	"database/sql"
	"errors"
)

// 文档注释：PostgreSQL 缓存
// 背景：表 _geo_country_cache 以格键为主键，ON CONFLICT 覆盖写入；表结构由 migrate.EnsureSchema 创建。
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (p *Postgres) Backend() string { return "postgres" }

func (p *Postgres) Get(ctx context.Context, lat, lon float64) (string, bool) {
	k := Key(lat, lon)
	var c string
	err := p.db.QueryRowContext(ctx, "SELECT country FROM _geo_country_cache WHERE cell_key=$1", k).Scan(&c)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.L().Warn("pg_cache_get_error", "key", k, "err", err)
		}
		return "", false
	}
	return c, true
}

func (p *Postgres) Put(ctx context.Context, lat, lon float64, country string) error {
	return p.PutKey(ctx, Key(lat, lon), country)
}

func (p *Postgres) PutKey(ctx context.Context, key, country string) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO _geo_country_cache(cell_key, country) VALUES($1,$2)
        ON CONFLICT (cell_key) DO UPDATE SET country=EXCLUDED.country, updated_at=now()`, key, country)
	return err
}
