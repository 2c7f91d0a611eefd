// Package notify publishes an event for every asset a processor writes, so
// downstream systems (CDN purges, manifest consumers) can react to a build.
package notify

import (
	"context"
	"fmt"
)

// AssetEvent describes one written asset.
type AssetEvent struct {
	Processor string `json:"processor"`
	Event     string `json:"event"`
	Source    string `json:"source"`
	Asset     string `json:"asset"`
	Size      int    `json:"size"`
}

type Publisher interface {
	Configure(any) error
	Publish(ctx context.Context, ev AssetEvent) error
	Close() error // idempotent
}

// Nop discards every event.
type Nop struct{}

func (Nop) Configure(any) error                      { return nil }
func (Nop) Publish(context.Context, AssetEvent) error { return nil }
func (Nop) Close() error                             { return nil }

/*──────── registry ───────*/

type factory = func() Publisher

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewPublisher(name string) (Publisher, error) {
	if name == "" || name == "none" {
		return Nop{}, nil
	}
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown notifier %q", name)
}
