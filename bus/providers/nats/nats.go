package nats

import (
	"context"

	"github.com/ichaly/introspect/bus/providers"
	"github.com/ichaly/introspect/log"
	"github.com/nats-io/nats.go"
)

// NatsBus 基于NATS的总线
type NatsBus struct {
	nc *nats.Conn
}

func NewNatsBus(url string) (*NatsBus, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("introspect"))
	if err != nil {
		return nil, err
	}
	return &NatsBus{nc: nc}, nil
}

func (my *NatsBus) Publish(ctx context.Context, topic string, payload any) error {
	body, err := providers.Encode(payload)
	if err != nil {
		return err
	}
	return my.nc.Publish(topic, body)
}

func (my *NatsBus) Subscribe(ctx context.Context, topic string, handler providers.Handler) error {
	_, err := my.nc.Subscribe(topic, func(msg *nats.Msg) {
		go func(data []byte) {
			if err := handler(context.Background(), data); err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("NatsBus处理消息失败")
			}
		}(msg.Data)
	})
	return err
}

// Close 发送缓冲中的消息后断开连接
func (my *NatsBus) Close() error {
	return my.nc.Drain()
}
