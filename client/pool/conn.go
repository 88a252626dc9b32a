package pool

import (
	"io"
	"net"
	"time"

	"github.com/hybridkv/hybridkv/internal/resp"
)

// Conn is a pooled TCP connection carrying its own reusable write and line
// buffers so that a command round trip does not allocate on the happy path.
// A Conn becomes invalid (and is discarded rather than pooled) after any
// I/O or protocol error; Release still must be called exactly once.
type Conn struct {
	pool    *Pool
	netConn net.Conn

	writeBuf []byte
	lineBuf  []byte

	valid bool
}

// Release returns c to its pool, or closes it if it is no longer valid or
// the pool's idle list is already full. Callers must call Release exactly
// once per successful Acquire, typically via defer.
func (c *Conn) Release() {
	c.pool.release(c)
}

// Exec writes a command and returns the single reply value the server sends
// back. On any I/O or protocol error the connection is marked invalid so
// that the subsequent Release discards it instead of pooling it.
func (c *Conn) Exec(args [][]byte) (resp.Value, error) {
	c.writeBuf = resp.AppendCommand(c.writeBuf[:0], args)

	if c.pool.cfg.WriteTimeout > 0 {
		_ = c.netConn.SetWriteDeadline(time.Now().Add(c.pool.cfg.WriteTimeout))
	}
	if _, err := c.netConn.Write(c.writeBuf); err != nil {
		c.valid = false
		return resp.Value{}, err
	}

	if c.pool.cfg.ReadTimeout > 0 {
		_ = c.netConn.SetReadDeadline(time.Now().Add(c.pool.cfg.ReadTimeout))
	}
	v, err := c.readValue()
	if err != nil {
		c.valid = false
		return resp.Value{}, err
	}
	// v's byte slices alias lineBuf, which the next Exec on this connection
	// (possibly from another goroutine, once Release has returned it to the
	// pool) overwrites in place. Clone before handing the value back to the
	// caller, who may still hold it well past this call.
	return cloneValue(v), nil
}

// cloneValue returns a deep copy of v whose byte slices share no backing
// array with v's, safe to retain beyond the connection's next use.
func cloneValue(v resp.Value) resp.Value {
	out := v
	if v.Str != nil {
		out.Str = append([]byte(nil), v.Str...)
	}
	if v.Bulk != nil {
		out.Bulk = append([]byte(nil), v.Bulk...)
	}
	if v.Array != nil {
		out.Array = make([]resp.Value, len(v.Array))
		for i, elem := range v.Array {
			out.Array[i] = cloneValue(elem)
		}
	}
	return out
}

// readValue accumulates bytes into lineBuf, growing it as needed, until
// resp.ParseValue reports a complete value. The connection speaks one
// command per round trip (no pipelining), so lineBuf is reset at the start
// of every call.
func (c *Conn) readValue() (resp.Value, error) {
	c.lineBuf = c.lineBuf[:0]

	for {
		v, n, err := resp.ParseValue(c.lineBuf)
		if err != nil {
			return resp.Value{}, err
		}
		if n > 0 {
			return v, nil
		}

		if len(c.lineBuf) == cap(c.lineBuf) {
			grown := make([]byte, len(c.lineBuf), cap(c.lineBuf)*2+initialLineBufSize)
			copy(grown, c.lineBuf)
			c.lineBuf = grown
		}
		old := len(c.lineBuf)
		c.lineBuf = c.lineBuf[:cap(c.lineBuf)]
		read, rerr := c.netConn.Read(c.lineBuf[old:])
		c.lineBuf = c.lineBuf[:old+read]
		if rerr != nil {
			return resp.Value{}, rerr
		}
		if read == 0 {
			return resp.Value{}, io.ErrUnexpectedEOF
		}
	}
}
