package gql

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ichaly/introspect/std"
	"github.com/ichaly/introspect/utl"
)

// Cache 按schema版本缓存自省结果，只缓存没有错误的结果
// schema重新加载后版本号变化，旧条目自然失效
type Cache struct {
	store *std.Cache
}

func NewCache(s *std.Cache) *Cache {
	return &Cache{store: s}
}

// uncacheable 携带含错误的执行结果穿过缓存层
type uncacheable struct {
	result std.Result
}

func (my *uncacheable) Error() string { return "uncacheable result" }

// rawJSON 已序列化的data，原样写入响应
type rawJSON []byte

func (my rawJSON) MarshalJSON() ([]byte, error) { return my, nil }

// Key 计算缓存键，变量按键排序序列化
func (my *Cache) Key(version string, req Request) (string, error) {
	vars, err := json.Marshal(req.Variables)
	if err != nil {
		return "", err
	}
	return "introspect:" + utl.Fingerprint(version, req.Query, req.OperationName, string(vars)), nil
}

// Do 命中时直接返回缓存的data，未命中时执行并写回
func (my *Cache) Do(ctx context.Context, version string, req Request, exec func(context.Context) std.Result) std.Result {
	if my == nil || my.store == nil {
		return exec(ctx)
	}
	key, err := my.Key(version, req)
	if err != nil {
		return failure(badRequest(err.Error()))
	}

	data, err := my.store.Do(ctx, key, func(ctx context.Context) ([]byte, error) {
		r := exec(ctx)
		if len(r.Errors) > 0 {
			return nil, &uncacheable{result: r}
		}
		return json.Marshal(r.Data)
	})
	if err != nil {
		var u *uncacheable
		if errors.As(err, &u) {
			return u.result
		}
		if ctx.Err() != nil {
			return failure(std.NewException(fiber.StatusRequestTimeout).WithMessage(err.Error()))
		}
		return failure(std.NewException(fiber.StatusInternalServerError).WithMessage("序列化自省结果失败").WithError(err))
	}
	return std.Result{Data: rawJSON(data)}
}
