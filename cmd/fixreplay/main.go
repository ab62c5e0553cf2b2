// Command fixreplay reads a captured FIX wire log — one or more
// SOH-delimited messages concatenated back to back, as written by the
// journal or tee'd from a live session — and prints each message in
// human-readable form.
//
// Usage:
//
//	fixreplay -file session.fix
//	fixreplay -file session.fix -hex       # also dump raw hex alongside decoded output
//	fixreplay -file session.fix -stats 5   # print message rate stats every N seconds
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ndrandal/fixengine/internal/fixcodec"
	"github.com/ndrandal/fixengine/internal/fixfield"
)

func main() {
	path := flag.String("file", "", "Path to a captured FIX wire log (required)")
	showHex := flag.Bool("hex", false, "Print raw hex dump alongside decoded output")
	statsInterval := flag.Int("stats", 0, "Print message rate stats every N seconds (0 = off)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *path == "" {
		log.Fatal("-file is required")
	}
	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	reg := fixfield.BuildCoreRegistry()
	reg.Seal()

	var msgCount uint64
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()
			var last uint64
			for range ticker.C {
				cur := atomic.LoadUint64(&msgCount)
				delta := cur - last
				rate := float64(delta) / float64(*statsInterval)
				log.Printf("[stats] %d msgs total | %.1f msgs/sec", cur, rate)
				last = cur
			}
		}()
	}

	// captured accumulates every byte ever pulled from f; cursor tracks how
	// much of it has already been attributed to a printed message, so -hex
	// can show exactly the frame Decode consumed even though bufio reads
	// ahead of it.
	var captured bytesBuf
	tee := io.TeeReader(f, &captured)
	br := bufio.NewReader(tee)
	cursor := 0
	for {
		msg, err := fixcodec.Decode(br, reg)
		if err == io.EOF {
			break
		}
		if err != nil {
			if ce, ok := err.(*fixcodec.CodecError); ok {
				fmt.Printf("DECODE ERROR  kind=%s  reason=%s\n", ce.Kind, ce.Reason)
				break
			}
			log.Fatalf("decode: %v", err)
		}

		atomic.AddUint64(&msgCount, 1)

		consumedSoFar := captured.Len() - br.Buffered()
		if *showHex {
			printHex(captured.data[cursor:consumedSoFar])
		}
		cursor = consumedSoFar
		printMessage(msg)
	}

	log.Printf("replayed %d messages", atomic.LoadUint64(&msgCount))
}

// bytesBuf is an io.Writer that never discards what it's written, used to
// give the -hex flag access to the exact bytes fixcodec.Decode consumed
// despite bufio's internal read-ahead.
type bytesBuf struct {
	data []byte
}

func (b *bytesBuf) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *bytesBuf) Len() int { return len(b.data) }

func printMessage(msg *fixcodec.Message) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-4s", string(msg.MsgType))
	for _, f := range msg.Fields {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("tag%d", f.Tag)
		}
		fmt.Fprintf(&sb, "  %s=%s", name, f.Raw())
	}
	fmt.Println(sb.String())
}

func printHex(data []byte) {
	var sb strings.Builder
	sb.WriteString("     hex: ")
	for i, b := range data {
		if i > 0 && i%16 == 0 {
			sb.WriteString("\n          ")
		}
		fmt.Fprintf(&sb, "%02x ", b)
	}
	fmt.Println(sb.String())
}
