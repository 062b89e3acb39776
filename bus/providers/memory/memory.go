package memory

import (
	"context"
	"sync"

	"github.com/ichaly/introspect/bus/providers"
	"github.com/ichaly/introspect/log"
)

// MemoryBus 进程内的总线，单实例部署或测试使用
type MemoryBus struct {
	handlers map[string][]providers.Handler
	mu       sync.RWMutex
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string][]providers.Handler),
	}
}

func (my *MemoryBus) Publish(ctx context.Context, topic string, payload any) error {
	body, err := providers.Encode(payload)
	if err != nil {
		return err
	}

	// 复制订阅者快照，不在锁内执行回调
	my.mu.RLock()
	handlers := append([]providers.Handler(nil), my.handlers[topic]...)
	my.mu.RUnlock()

	for _, handler := range handlers {
		go func(h providers.Handler) {
			if err := h(context.Background(), body); err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("MemoryBus处理消息失败")
			}
		}(handler)
	}
	return nil
}

func (my *MemoryBus) Subscribe(ctx context.Context, topic string, handler providers.Handler) error {
	my.mu.Lock()
	defer my.mu.Unlock()

	my.handlers[topic] = append(my.handlers[topic], handler)
	return nil
}

func (my *MemoryBus) Close() error {
	my.mu.Lock()
	defer my.mu.Unlock()

	my.handlers = make(map[string][]providers.Handler)
	return nil
}
