package gql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/ichaly/introspect/gql/internal/intro"
	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/std"
	"github.com/ichaly/introspect/utl"
)

// Version 一个不可变的schema版本，发布后可被任意多个请求并发读取
type Version struct {
	// ID 由元schema版本与schema文本计算，内容不变时保持不变
	ID     string
	Source string
	// SDL 原始schema文本，供其他实例重建同一版本
	SDL      string
	Loaded   time.Time
	resolver *intro.Resolver
}

// ParseVersion 解析schema文本并与元schema合并
func ParseVersion(name, input string) (*Version, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: input})
	if err != nil {
		return nil, fmt.Errorf("解析schema失败: %w", err)
	}
	return &Version{
		ID:       utl.Fingerprint(intro.MetaSchemaVersion, input),
		Source:   name,
		SDL:      input,
		Loaded:   time.Now(),
		resolver: intro.NewResolver(intro.Load(doc)),
	}, nil
}

// Registry 持有当前发布的schema版本，重新加载时原子替换，进行中的请求继续使用旧版本
type Registry struct {
	path     string
	debounce time.Duration
	current  atomic.Pointer[Version]

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	listeners []func(*Version)
}

// NewRegistry 按配置加载schema文件，开启schema.watch时随应用生命周期监听文件变更
func NewRegistry(c *std.Config, l std.Lifecycle) (*Registry, error) {
	r, err := LoadRegistry(c.Schema.Path)
	if err != nil {
		return nil, err
	}
	r.debounce = c.Schema.Debounce
	if c.Schema.Watch {
		l.Append(func(ctx context.Context) error {
			return r.Watch()
		}, func(ctx context.Context) error {
			return r.Close()
		})
	}
	return r, nil
}

// LoadRegistry 加载schema文件并发布第一个版本
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, errors.New("schema文件路径不能为空")
	}
	r := &Registry{path: filepath.Clean(path), debounce: 200 * time.Millisecond}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Current 返回当前版本
func (my *Registry) Current() *Version {
	return my.current.Load()
}

// OnChange 注册版本发布回调
func (my *Registry) OnChange(fn func(*Version)) {
	my.mu.Lock()
	defer my.mu.Unlock()
	my.listeners = append(my.listeners, fn)
}

// Reload 重新读取schema文件，失败时保留当前版本
func (my *Registry) Reload() error {
	data, err := os.ReadFile(my.path)
	if err != nil {
		return fmt.Errorf("读取schema文件失败: %w", err)
	}
	v, err := ParseVersion(my.path, string(data))
	if err != nil {
		return err
	}
	my.Publish(v)
	return nil
}

// Publish 发布新版本，内容未变化时不替换
func (my *Registry) Publish(v *Version) {
	if old := my.current.Load(); old != nil && old.ID == v.ID {
		return
	}
	my.current.Store(v)
	log.Info().Str("path", v.Source).Str("version", v.ID).Msg("schema版本已发布")

	my.mu.Lock()
	listeners := append([]func(*Version){}, my.listeners...)
	my.mu.Unlock()
	for _, fn := range listeners {
		fn(v)
	}
}

// Ready 健康检查使用
func (my *Registry) Ready() error {
	if my.Current() == nil {
		return errors.New("schema尚未加载")
	}
	return nil
}

// Watch 监听schema文件所在目录，编辑器以重命名方式保存文件时同样能收到事件
func (my *Registry) Watch() error {
	my.mu.Lock()
	defer my.mu.Unlock()
	if my.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监视器失败: %w", err)
	}
	if err := w.Add(filepath.Dir(my.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("添加监视目录失败: %w", err)
	}
	my.watcher = w
	go my.loop(w)
	return nil
}

func (my *Registry) loop(w *fsnotify.Watcher) {
	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			if filepath.Clean(event.Name) != my.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			// 防抖，连续写入只触发一次加载
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(my.debounce, func() {
				if err := my.Reload(); err != nil {
					log.Warn().Err(err).Str("path", my.path).Msg("schema重新加载失败，继续使用当前版本")
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", my.path).Msg("schema文件监视错误")
		}
	}
}

// Close 停止监听
func (my *Registry) Close() error {
	my.mu.Lock()
	defer my.mu.Unlock()
	if my.watcher == nil {
		return nil
	}
	err := my.watcher.Close()
	my.watcher = nil
	return err
}
