// 包 rescache：以取整坐标为键的持久化国家解析缓存
package rescache

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// 文档注释：解析缓存统一契约
// 背景：国家归属视为不随时间变化，条目永不过期；查询前读、解析后写。
// 约束：Get 不触发持久化；Put 无条件覆盖并同步落盘/落库，返回的错误仅用于记录，不影响调用方结果。
type Store interface {
	Backend() string
	Get(ctx context.Context, lat, lon float64) (string, bool)
	Put(ctx context.Context, lat, lon float64, country string) error
}

// KeyWriter：按已构造的键直接写入，供缓存迁移工具使用
type KeyWriter interface {
	PutKey(ctx context.Context, key, country string) error
}

// 文档注释：缓存键
// 背景：两坐标各取两位小数后以逗号拼接，赤道处约 1.1km×1.1km 一格；有损且有意为之，相邻查询共享一格。
// 约束：文本形态与历史 country_cache.json 一致（"48.5,2.5"、"10.0,10.0"）；-0 归一为 0。
func Key(lat, lon float64) string {
	return formatCell(round2(lat)) + "," + formatCell(round2(lon))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

func formatCell(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
