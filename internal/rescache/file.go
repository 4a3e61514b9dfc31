package rescache

import (
	"balloon-geo/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// 文档注释：JSON 文件缓存
// 背景：启动时整体读入内存；每次写入后同步整体重写文件（临时文件 + 原子改名），以写延迟换取崩溃安全。
// 约束：写路径持有互斥锁覆盖“更新 + 落盘”全过程，避免并发整体重写造成丢失更新；读路径仅持读锁。
type File struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// OpenFile：文件缺失或损坏时以空缓存启动，不返回错误
func OpenFile(path string) *File {
	f := &File{path: path, data: map[string]string{}}
	m, err := LoadEntries(path)
	switch {
	case err == nil:
		f.data = m
		logger.L().Info("cache_load_ok", "path", path, "entries", len(m))
	case errors.Is(err, fs.ErrNotExist):
		logger.L().Info("cache_load_empty", "path", path)
	default:
		logger.L().Warn("cache_load_error", "path", path, "err", err)
	}
	return f
}

// LoadEntries：读取 {"lat,lon": "country"} 形式的缓存文件
func LoadEntries(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (f *File) Backend() string { return "file" }

func (f *File) Get(_ context.Context, lat, lon float64) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.data[Key(lat, lon)]
	return c, ok
}

func (f *File) Put(ctx context.Context, lat, lon float64, country string) error {
	return f.PutKey(ctx, Key(lat, lon), country)
}

func (f *File) PutKey(_ context.Context, key, country string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = country
	return f.persistLocked()
}

func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data)
}

func (f *File) persistLocked() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".country_cache-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
