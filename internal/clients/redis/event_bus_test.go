package redis

import (
	"context"
	"testing"

	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

func TestChannelName(t *testing.T) {
	if got := ChannelName("materialhub", "user-1"); got != "materialhub:user-1" {
		t.Fatalf("ChannelName: got %q", got)
	}
	if got := ChannelName("materialhub", ""); got != "materialhub" {
		t.Fatalf("ChannelName: got %q", got)
	}
}

func TestNewEventBusRequiresAddress(t *testing.T) {
	if _, err := NewEventBus(context.Background(), logger.Nop(), Options{}); err == nil {
		t.Fatalf("NewEventBus: expected error without address")
	}
}

func TestNewEventBusFailsWhenUnreachable(t *testing.T) {
	if _, err := NewEventBus(context.Background(), logger.Nop(), Options{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("NewEventBus: expected ping error")
	}
}
