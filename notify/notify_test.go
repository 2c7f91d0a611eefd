package notify

import (
	"context"
	"testing"
)

func TestNewPublisher_NoneIsNop(t *testing.T) {
	for _, name := range []string{"", "none"} {
		p, err := NewPublisher(name)
		if err != nil {
			t.Fatalf("NewPublisher(%q): %v", name, err)
		}
		if err := p.Publish(context.Background(), AssetEvent{}); err != nil {
			t.Fatalf("nop publish: %v", err)
		}
	}
	if _, err := NewPublisher("carrier-pigeon"); err == nil {
		t.Fatal("expected error for unknown notifier")
	}
}
