// Package client implements the synchronous facade of spec §4.5: a thin
// wrapper over client/pool and internal/resp that issues exactly one
// command per acquired connection and returns it immediately after.
package client

import (
	"strconv"
	"time"

	"github.com/hybridkv/hybridkv/client/pool"
	"github.com/hybridkv/hybridkv/internal/resp"
)

// Config configures a Client's underlying connection pool.
type Config struct {
	Addr           string
	MaxIdle        int
	MaxTotal       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Client is a synchronous HybridKV client. All methods are safe for
// concurrent use; concurrency is provided by the underlying pool, not by
// any lock in Client itself.
type Client struct {
	pool *pool.Pool
}

// New constructs a Client. It does not dial eagerly.
func New(cfg Config) *Client {
	return &Client{pool: pool.New(pool.Config{
		Addr:           cfg.Addr,
		MaxIdle:        cfg.MaxIdle,
		MaxTotal:       cfg.MaxTotal,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	})}
}

// exec acquires a connection, issues one command, and releases the
// connection before returning.
func (c *Client) exec(args ...[]byte) (resp.Value, error) {
	conn, err := c.pool.Acquire()
	if err != nil {
		return resp.Value{}, err
	}
	defer conn.Release()
	return conn.Exec(args)
}

func bytesOf(s string) []byte { return []byte(s) }

// Get returns the value stored for key, or (nil, false) on miss.
func (c *Client) Get(key []byte) ([]byte, bool, error) {
	v, err := c.exec(bytesOf("GET"), key)
	if err != nil {
		return nil, false, err
	}
	switch {
	case v.Kind == resp.KindBulk && v.Null:
		return nil, false, nil
	case v.Kind == resp.KindBulk:
		return v.Bulk, true, nil
	case v.Kind == resp.KindError:
		return nil, false, &ServerError{Message: string(v.Str)}
	default:
		return nil, false, &UnexpectedResponseError{Command: "GET", Kind: kindName(v.Kind)}
	}
}

// Set stores key=value, clearing any prior TTL.
func (c *Client) Set(key, value []byte) error {
	v, err := c.exec(bytesOf("SET"), key, value)
	if err != nil {
		return err
	}
	return expectOK("SET", v)
}

// SetWithTTL stores key=value with an expiration of ttl from now. ttl is
// truncated to whole seconds, matching the wire protocol's EX argument.
func (c *Client) SetWithTTL(key, value []byte, ttl time.Duration) error {
	secs := strconv.FormatInt(int64(ttl/time.Second), 10)
	v, err := c.exec(bytesOf("SET"), key, value, bytesOf("EX"), bytesOf(secs))
	if err != nil {
		return err
	}
	return expectOK("SET", v)
}

// Delete removes key and reports whether a live key was actually removed.
func (c *Client) Delete(key []byte) (bool, error) {
	v, err := c.exec(bytesOf("DEL"), key)
	if err != nil {
		return false, err
	}
	n, err := expectInteger("DEL", v)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Expire sets key's TTL to d from now, reporting whether the key existed.
func (c *Client) Expire(key []byte, d time.Duration) (bool, error) {
	secs := strconv.FormatInt(int64(d/time.Second), 10)
	v, err := c.exec(bytesOf("EXPIRE"), key, bytesOf(secs))
	if err != nil {
		return false, err
	}
	n, err := expectInteger("EXPIRE", v)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// TTLStatus describes the result of a TTL query.
type TTLStatus int

const (
	// TTLMissing means the key is absent.
	TTLMissing TTLStatus = iota
	// TTLNoExpiry means the key is live with no deadline.
	TTLNoExpiry
	// TTLHasDeadline means the key is live with Remaining time left.
	TTLHasDeadline
)

// TTL queries a key's expiration status.
func (c *Client) TTL(key []byte) (status TTLStatus, remaining time.Duration, err error) {
	v, err := c.exec(bytesOf("TTL"), key)
	if err != nil {
		return TTLMissing, 0, err
	}
	n, err := expectInteger("TTL", v)
	if err != nil {
		return TTLMissing, 0, err
	}
	switch {
	case n == -2:
		return TTLMissing, 0, nil
	case n == -1:
		return TTLNoExpiry, 0, nil
	default:
		return TTLHasDeadline, time.Duration(n) * time.Second, nil
	}
}

// Ping round-trips to the server, returning the server's reply payload. An
// empty payload sends a bare PING and expects +PONG.
func (c *Client) Ping(payload []byte) ([]byte, error) {
	var v resp.Value
	var err error
	if len(payload) == 0 {
		v, err = c.exec(bytesOf("PING"))
	} else {
		v, err = c.exec(bytesOf("PING"), payload)
	}
	if err != nil {
		return nil, err
	}
	switch v.Kind {
	case resp.KindSimpleString:
		return v.Str, nil
	case resp.KindBulk:
		return v.Bulk, nil
	case resp.KindError:
		return nil, &ServerError{Message: string(v.Str)}
	default:
		return nil, &UnexpectedResponseError{Command: "PING", Kind: kindName(v.Kind)}
	}
}

// Info returns the server's raw INFO payload.
func (c *Client) Info() ([]byte, error) {
	v, err := c.exec(bytesOf("INFO"))
	if err != nil {
		return nil, err
	}
	if v.Kind == resp.KindError {
		return nil, &ServerError{Message: string(v.Str)}
	}
	if v.Kind != resp.KindBulk || v.Null {
		return nil, &UnexpectedResponseError{Command: "INFO", Kind: kindName(v.Kind)}
	}
	return v.Bulk, nil
}

func expectOK(cmd string, v resp.Value) error {
	switch v.Kind {
	case resp.KindSimpleString:
		if string(v.Str) != "OK" {
			return &UnexpectedResponseError{Command: cmd, Kind: "simple string " + string(v.Str)}
		}
		return nil
	case resp.KindError:
		return &ServerError{Message: string(v.Str)}
	default:
		return &UnexpectedResponseError{Command: cmd, Kind: kindName(v.Kind)}
	}
}

func expectInteger(cmd string, v resp.Value) (int64, error) {
	switch v.Kind {
	case resp.KindInteger:
		return v.Int, nil
	case resp.KindError:
		return 0, &ServerError{Message: string(v.Str)}
	default:
		return 0, &UnexpectedResponseError{Command: cmd, Kind: kindName(v.Kind)}
	}
}

func kindName(k resp.Kind) string {
	switch k {
	case resp.KindSimpleString:
		return "simple string"
	case resp.KindError:
		return "error"
	case resp.KindInteger:
		return "integer"
	case resp.KindBulk:
		return "bulk"
	case resp.KindArray:
		return "array"
	default:
		return "unknown"
	}
}
