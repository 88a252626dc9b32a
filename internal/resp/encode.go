package resp

import "strconv"

// AppendCommand encodes args as a RESP2 array of bulk strings and appends
// the result to buf, returning the grown slice. buf may be a caller-owned
// reusable buffer; AppendCommand never allocates a new backing array unless
// buf's capacity is exhausted.
func AppendCommand(buf []byte, args [][]byte) []byte {
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(args)), 10)
	buf = append(buf, '\r', '\n')
	for _, a := range args {
		buf = AppendBulk(buf, a)
	}
	return buf
}

// AppendSimpleString appends a "+<s>\r\n" frame.
func AppendSimpleString(buf []byte, s string) []byte {
	buf = append(buf, '+')
	buf = append(buf, s...)
	return append(buf, '\r', '\n')
}

// AppendError appends a "-<msg>\r\n" frame.
func AppendError(buf []byte, msg string) []byte {
	buf = append(buf, '-')
	buf = append(buf, msg...)
	return append(buf, '\r', '\n')
}

// AppendInteger appends a ":<n>\r\n" frame. n is emitted as decimal ASCII
// without leading zeros; zero is emitted as "0".
func AppendInteger(buf []byte, n int64) []byte {
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, n, 10)
	return append(buf, '\r', '\n')
}

// AppendBulk appends a "$<len>\r\n<bytes>\r\n" frame for b. A nil b is
// encoded as an empty bulk string ("$0\r\n\r\n"), not a null bulk — use
// AppendNullBulk for "$-1\r\n".
func AppendBulk(buf []byte, b []byte) []byte {
	buf = append(buf, '$')
	buf = strconv.AppendInt(buf, int64(len(b)), 10)
	buf = append(buf, '\r', '\n')
	buf = append(buf, b...)
	return append(buf, '\r', '\n')
}

// AppendNullBulk appends "$-1\r\n".
func AppendNullBulk(buf []byte) []byte {
	return append(buf, '$', '-', '1', '\r', '\n')
}
