package providers

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler 消息处理函数
type Handler func(ctx context.Context, payload []byte) error

// Bus 通知总线，多个实例之间同步schema版本
type Bus interface {
	// Publish 发布消息，payload为[]byte或string时原样发送，其余类型序列化为json
	Publish(ctx context.Context, topic string, payload any) error
	// Subscribe 订阅主题，handler在独立的goroutine中执行
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Encode 统一各实现的消息体编码
func Encode(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(payload)
	}
}
