// Command hybridkv-bench is a minimal benchmark driver exercising the
// client facade end-to-end: `<keys> <ops> <key_size> <value_size>`, spec
// §6's CLI shape, with keys rounded up to the next power of two. It is a
// thin wrapper, not a full benchmarking harness (out of core per spec §1).
package main

import (
	"fmt"
	"math/bits"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/hybridkv/hybridkv/client"
)

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func main() {
	addr := "127.0.0.1:6379"
	keys, ops, keySize, valueSize := 65536, 1000000, 16, 128

	args := os.Args[1:]
	positions := []*int{&keys, &ops, &keySize, &valueSize}
	for i, p := range positions {
		if i >= len(args) {
			break
		}
		n, err := strconv.Atoi(args[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid argument %q: %v\n", args[i], err)
			os.Exit(1)
		}
		*p = n
	}
	keys = nextPow2(keys)

	c := client.New(client.Config{Addr: addr, MaxTotal: 32, ConnectTimeout: 5 * time.Second})

	keyBufs := make([][]byte, keys)
	for i := range keyBufs {
		keyBufs[i] = randomBytes(keySize)
	}
	value := randomBytes(valueSize)

	start := time.Now()
	for i := 0; i < ops; i++ {
		k := keyBufs[i%keys]
		if i%10 == 0 {
			if err := c.Set(k, value); err != nil {
				fmt.Fprintln(os.Stderr, "set error:", err)
				os.Exit(1)
			}
			continue
		}
		if _, _, err := c.Get(k); err != nil {
			fmt.Fprintln(os.Stderr, "get error:", err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("ops=%d keys=%d key_size=%d value_size=%d elapsed=%s ops/sec=%.0f\n",
		ops, keys, keySize, valueSize, elapsed, float64(ops)/elapsed.Seconds())
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}
