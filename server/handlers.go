package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/hybridkv/hybridkv/internal/resp"
	"github.com/hybridkv/hybridkv/internal/store"
)

// dispatch executes one parsed command against the engine and appends its
// RESP2 reply to buf, returning the grown slice. Argument-count validation
// precedes every engine call, per spec §4.6.
func (s *Server) dispatch(buf []byte, args [][]byte) []byte {
	if len(args) == 0 {
		return resp.AppendError(buf, "ERR empty command")
	}

	name := strings.ToUpper(string(args[0]))
	switch name {
	case "PING":
		return s.handlePing(buf, args)
	case "GET":
		return s.handleGet(buf, args)
	case "SET":
		return s.handleSet(buf, args)
	case "DEL":
		return s.handleDel(buf, args)
	case "EXPIRE":
		return s.handleExpire(buf, args)
	case "TTL":
		return s.handleTTL(buf, args)
	case "INFO":
		return s.handleInfo(buf, args)
	default:
		return resp.AppendError(buf, "ERR unknown command")
	}
}

func wrongArity(buf []byte, cmd string) []byte {
	return resp.AppendError(buf, "ERR wrong number of arguments for "+cmd)
}

func (s *Server) handlePing(buf []byte, args [][]byte) []byte {
	switch len(args) {
	case 1:
		return resp.AppendSimpleString(buf, "PONG")
	case 2:
		return resp.AppendBulk(buf, args[1])
	default:
		return wrongArity(buf, "PING")
	}
}

func (s *Server) handleGet(buf []byte, args [][]byte) []byte {
	if len(args) != 2 {
		return wrongArity(buf, "GET")
	}
	v, found := s.engine.Get(args[1])
	if !found {
		return resp.AppendNullBulk(buf)
	}
	return resp.AppendBulk(buf, v)
}

func (s *Server) handleSet(buf []byte, args [][]byte) []byte {
	switch len(args) {
	case 3:
		s.engine.Set(args[1], args[2])
		return resp.AppendSimpleString(buf, "OK")
	case 5:
		if !strings.EqualFold(string(args[3]), "EX") {
			return wrongArity(buf, "SET")
		}
		secs, ok := parseUnsignedSeconds(args[4])
		if !ok {
			return resp.AppendError(buf, "ERR invalid integer")
		}
		s.engine.Set(args[1], args[2])
		// Compound of set+expire, per spec §4.6: not atomic, last winning
		// expire call determines the final TTL under concurrent writers.
		_ = s.engine.Expire(args[1], time.Duration(secs)*time.Second)
		return resp.AppendSimpleString(buf, "OK")
	default:
		return wrongArity(buf, "SET")
	}
}

func (s *Server) handleDel(buf []byte, args [][]byte) []byte {
	if len(args) < 2 {
		return wrongArity(buf, "DEL")
	}
	var n int64
	for _, key := range args[1:] {
		if s.engine.Delete(key) {
			n++
		}
	}
	return resp.AppendInteger(buf, n)
}

func (s *Server) handleExpire(buf []byte, args [][]byte) []byte {
	if len(args) != 3 {
		return wrongArity(buf, "EXPIRE")
	}
	secs, ok := parseUnsignedSeconds(args[2])
	if !ok {
		return resp.AppendError(buf, "ERR invalid integer")
	}
	if err := s.engine.Expire(args[1], time.Duration(secs)*time.Second); err != nil {
		return resp.AppendInteger(buf, 0)
	}
	return resp.AppendInteger(buf, 1)
}

func (s *Server) handleTTL(buf []byte, args [][]byte) []byte {
	if len(args) != 2 {
		return wrongArity(buf, "TTL")
	}
	status, remaining := s.engine.TTL(args[1])
	switch status {
	case store.TTLMissing:
		return resp.AppendInteger(buf, -2)
	case store.TTLNoExpiry:
		return resp.AppendInteger(buf, -1)
	default:
		// Rounded to the nearest whole second, as Redis reports TTL.
		return resp.AppendInteger(buf, int64((remaining+time.Second/2)/time.Second))
	}
}

func (s *Server) handleInfo(buf []byte, args [][]byte) []byte {
	if len(args) != 1 {
		return wrongArity(buf, "INFO")
	}
	uptime := int64(time.Since(s.startedAt) / time.Second)
	payload := "role:master\r\n" +
		"engine:hybridkv\r\n" +
		"uptime_seconds:" + strconv.FormatInt(uptime, 10) + "\r\n" +
		"used_bytes:" + strconv.FormatInt(s.engine.UsedBytes(), 10) + "\r\n"
	return resp.AppendBulk(buf, []byte(payload))
}

// parseUnsignedSeconds parses args as an unsigned decimal integer. The wire
// protocol's EX/EXPIRE argument is documented as unsigned.
func parseUnsignedSeconds(b []byte) (int64, bool) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
