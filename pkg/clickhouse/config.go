package clickhouse

import (
	"net"
	"strconv"
	"time"
)

type ClientOption func(*ClientConfig)

// ClientConfig holds the connection settings; Settings are sent with every
// query.
type ClientConfig struct {
	Addr            string
	Database        string
	User            string
	Password        string
	HTTP            bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	Settings        map[string]any
}

func WithAddr(host string, port int) ClientOption {
	return func(c *ClientConfig) { c.Addr = net.JoinHostPort(host, strconv.Itoa(port)) }
}

func WithAuth(database, user, password string) ClientOption {
	return func(c *ClientConfig) {
		c.Database = database
		c.User = user
		c.Password = password
	}
}

// WithHTTP switches from the native protocol to HTTP.
func WithHTTP(enabled bool) ClientOption {
	return func(c *ClientConfig) { c.HTTP = enabled }
}

func WithPool(maxOpen, maxIdle int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxOpenConns = maxOpen
		c.MaxIdleConns = maxIdle
	}
}

func WithTimeouts(dial, read time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.DialTimeout = dial
		c.ReadTimeout = read
	}
}

// WithAsyncInsert lets the server buffer inserts; wait blocks the insert until
// the buffer is flushed.
func WithAsyncInsert(enabled, wait bool) ClientOption {
	return func(c *ClientConfig) {
		if !enabled {
			return
		}
		c.Settings["async_insert"] = 1
		if wait {
			c.Settings["wait_for_async_insert"] = 1
		}
	}
}

// WithMaxExecutionTime caps each query server side, in whole seconds.
func WithMaxExecutionTime(d time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if d > 0 {
			c.Settings["max_execution_time"] = int(d.Seconds())
		}
	}
}
