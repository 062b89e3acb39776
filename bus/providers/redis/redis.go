package redis

import (
	"context"
	"sync"

	"github.com/ichaly/introspect/bus/providers"
	"github.com/ichaly/introspect/log"
	"github.com/redis/go-redis/v9"
)

// RedisBus 基于Redis Pub/Sub的总线，所有主题复用同一个订阅连接
type RedisBus struct {
	rdb      *redis.Client
	pubsub   *redis.PubSub
	handlers map[string][]providers.Handler
	mu       sync.RWMutex
	once     sync.Once
}

// NewRedisBus url形如redis://:password@host:6379/0
func NewRedisBus(url string) (*RedisBus, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBus{
		rdb:      redis.NewClient(opt),
		handlers: make(map[string][]providers.Handler),
	}, nil
}

func (my *RedisBus) Publish(ctx context.Context, topic string, payload any) error {
	body, err := providers.Encode(payload)
	if err != nil {
		return err
	}
	return my.rdb.Publish(ctx, topic, body).Err()
}

func (my *RedisBus) Subscribe(ctx context.Context, topic string, handler providers.Handler) error {
	my.mu.Lock()
	defer my.mu.Unlock()

	// 首次订阅时建立连接并启动分发
	my.once.Do(func() {
		my.pubsub = my.rdb.Subscribe(ctx)
		go my.dispatch(my.pubsub.Channel())
	})

	my.handlers[topic] = append(my.handlers[topic], handler)
	return my.pubsub.Subscribe(ctx, topic)
}

func (my *RedisBus) dispatch(ch <-chan *redis.Message) {
	for msg := range ch {
		my.mu.RLock()
		handlers := append([]providers.Handler(nil), my.handlers[msg.Channel]...)
		my.mu.RUnlock()

		for _, h := range handlers {
			go func(handler providers.Handler, topic, payload string) {
				if err := handler(context.Background(), []byte(payload)); err != nil {
					log.Warn().Err(err).Str("topic", topic).Msg("RedisBus处理消息失败")
				}
			}(h, msg.Channel, msg.Payload)
		}
	}
	log.Debug().Msg("RedisBus分发循环已退出")
}

func (my *RedisBus) Close() error {
	my.mu.Lock()
	defer my.mu.Unlock()

	if my.pubsub != nil {
		if err := my.pubsub.Close(); err != nil {
			return err
		}
	}
	return my.rdb.Close()
}
