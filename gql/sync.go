package gql

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ichaly/introspect/bus"
	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/std"
)

// Announcement 通过总线广播的schema版本
type Announcement struct {
	Origin string `json:"origin"`
	ID     string `json:"id"`
	Source string `json:"source"`
	SDL    string `json:"sdl"`
}

// Sync 在多个实例之间同步schema版本，本地重新加载后广播，收到其他实例的版本后直接发布
type Sync struct {
	origin   string
	topic    string
	bus      bus.Bus
	registry *Registry
	// remote 最近一次从总线收到的版本对象，只有这个对象发布时不回传
	remote atomic.Pointer[Version]
}

// NewSync 总线为nil时不做任何同步
func NewSync(c *std.Config, b bus.Bus, r *Registry, l std.Lifecycle) *Sync {
	my := &Sync{origin: uuid.NewString(), topic: c.Bus.Topic, bus: b, registry: r}
	if b == nil {
		return my
	}
	l.Append(my.Start, func(ctx context.Context) error {
		return my.bus.Close()
	})
	return my
}

// Start 订阅总线并监听本地版本变更
func (my *Sync) Start(ctx context.Context) error {
	if err := my.bus.Subscribe(ctx, my.topic, my.receive); err != nil {
		return err
	}
	my.registry.OnChange(my.announce)
	return nil
}

func (my *Sync) announce(v *Version) {
	if v == my.remote.Load() {
		return
	}
	err := my.bus.Publish(context.Background(), my.topic, Announcement{
		Origin: my.origin, ID: v.ID, Source: v.Source, SDL: v.SDL,
	})
	if err != nil {
		log.Warn().Err(err).Str("version", v.ID).Msg("广播schema版本失败")
	}
}

func (my *Sync) receive(ctx context.Context, payload []byte) error {
	var a Announcement
	if err := json.Unmarshal(payload, &a); err != nil {
		return err
	}
	if a.Origin == my.origin {
		return nil
	}
	if cur := my.registry.Current(); cur != nil && cur.ID == a.ID {
		return nil
	}
	v, err := ParseVersion(a.Source, a.SDL)
	if err != nil {
		return err
	}
	log.Info().Str("origin", a.Origin).Str("version", v.ID).Msg("收到其他实例的schema版本")
	my.remote.Store(v)
	my.registry.Publish(v)
	return nil
}
