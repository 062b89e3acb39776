package std

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	bigcache_store "github.com/eko/gocache/store/bigcache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/std/internal"
)

const (
	CACHE_MEMORY = "memory"
	CACHE_REDIS  = "redis"
	CACHE_NONE   = "none"
)

// Cache 基于gocache的字节缓存，屏蔽不同存储返回值类型的差异
// nil值可直接使用，等价于不缓存
type Cache struct {
	c     *cache.Cache[any]
	ttl   time.Duration
	group singleflight.Group
}

// NewCache 根据cache.dialect创建缓存，none返回nil
func NewCache(c *Config) (*Cache, error) {
	s, err := newStore(c.Cache)
	if err != nil || s == nil {
		return nil, err
	}
	log.Info().Str("dialect", c.Cache.Dialect).Dur("ttl", c.Cache.Ttl).Msg("启用自省结果缓存")
	return &Cache{c: cache.New[any](s), ttl: c.Cache.Ttl}, nil
}

func newStore(ds internal.DataSource) (store.StoreInterface, error) {
	switch ds.Dialect {
	case CACHE_NONE, "":
		return nil, nil
	case CACHE_MEMORY:
		client, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ds.Ttl))
		if err != nil {
			return nil, fmt.Errorf("创建内存缓存失败: %w", err)
		}
		return bigcache_store.NewBigcache(client), nil
	case CACHE_REDIS:
		client := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(ds.Host, strconv.Itoa(ds.Port)),
			Password: ds.Password,
			DB:       redisDB(ds.Name),
		})
		return redis_store.NewRedis(client, store.WithExpiration(ds.Ttl)), nil
	default:
		return nil, fmt.Errorf("不支持的缓存类型: %s", ds.Dialect)
	}
}

func redisDB(name string) int {
	db, err := strconv.Atoi(name)
	if err != nil {
		return 0
	}
	return db
}

// Get 读取缓存，未命中或存储异常均返回false
func (my *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if my == nil {
		return nil, false
	}
	val, err := my.c.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	switch v := val.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// Set 写入缓存
func (my *Cache) Set(ctx context.Context, key string, val []byte) error {
	if my == nil {
		return nil
	}
	return my.c.Set(ctx, key, val, store.WithExpiration(my.ttl))
}

// Do 先读缓存，未命中时合并相同key的并发加载，加载成功后写回
// 合并后的加载使用不可取消的ctx，某个调用方取消只结束它自己的等待
func (my *Cache) Do(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if my == nil {
		return load(ctx)
	}
	if val, ok := my.Get(ctx, key); ok {
		return val, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := my.group.DoChan(key, func() (interface{}, error) {
		data, err := load(shared)
		if err != nil {
			return nil, err
		}
		if err := my.Set(shared, key, data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("写入缓存失败")
		}
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Ping 检查缓存存储是否可用
func (my *Cache) Ping(ctx context.Context) error {
	if my == nil {
		return nil
	}
	const probe = "__introspect_ping"
	if err := my.Set(ctx, probe, []byte("1")); err != nil {
		return err
	}
	_, err := my.c.Get(ctx, probe)
	return err
}
