package clickhouse

import (
	"context"
	"testing"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
)

func TestDriverOptions(t *testing.T) {
	cfg := defaultConfig()
	for _, opt := range []ClientOption{
		WithAddr("ch.local", 9000),
		WithAuth("marketdash", "reader", "p@ss"),
		WithPool(10, 4),
		WithTimeouts(3*time.Second, 20*time.Second),
		WithAsyncInsert(true, true),
		WithMaxExecutionTime(30 * time.Second),
	} {
		opt(cfg)
	}

	o := driverOptions(cfg)
	if len(o.Addr) != 1 || o.Addr[0] != "ch.local:9000" || o.Protocol != ch.Native {
		t.Fatalf("unexpected addr/protocol %v %v", o.Addr, o.Protocol)
	}
	if o.Auth.Database != "marketdash" || o.Auth.Username != "reader" || o.Auth.Password != "p@ss" {
		t.Fatalf("unexpected auth %+v", o.Auth)
	}
	if o.MaxOpenConns != 10 || o.MaxIdleConns != 4 || o.DialTimeout != 3*time.Second || o.ReadTimeout != 20*time.Second {
		t.Fatalf("pool or timeouts not applied: %+v", o)
	}
	if o.Settings["async_insert"] != 1 || o.Settings["wait_for_async_insert"] != 1 || o.Settings["max_execution_time"] != 30 {
		t.Fatalf("settings not applied: %v", o.Settings)
	}
}

func TestDriverOptionsHTTPWithoutAsync(t *testing.T) {
	cfg := defaultConfig()
	WithHTTP(true)(cfg)
	WithAsyncInsert(false, true)(cfg)

	o := driverOptions(cfg)
	if o.Protocol != ch.HTTP {
		t.Fatalf("protocol = %v", o.Protocol)
	}
	if len(o.Settings) != 0 {
		t.Fatalf("disabled async insert must not set anything: %v", o.Settings)
	}
}

func TestNewClientRequiresAddr(t *testing.T) {
	if _, err := NewClient(context.Background()); err == nil {
		t.Fatalf("expected error without address")
	}
}
