package main

import (
	"fmt"
	"time"

	"github.com/kestrelml/stridebuf/imgref"
	"github.com/kestrelml/stridebuf/memref"
	"github.com/kestrelml/stridebuf/options"
	"github.com/kestrelml/stridebuf/pixel"
	"github.com/kestrelml/stridebuf/util"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

const iterations = 1000

// compares heap vs pooled allocation for repeated ingestion of same-shaped
// frames, the pattern a per-frame pipeline hits.
func main() {

	p := profile.Start(profile.MemProfileHeap, profile.ProfilePath("."))
	defer p.Stop()

	src, err := pixel.NewBuffer(512, 512, 1)
	if err != nil {
		log.Fatalf("building source buffer: %v", err)
	}
	util.Fill(src.Data, 0, len(src.Data), uint8(128))

	opts := &options.IngestOptions{Normalize: true}

	start := time.Now()
	for i := 0; i < iterations; i++ {
		img, err := imgref.FromPixels[float32](src, opts)
		if err != nil {
			log.Fatalf("ingest: %v", err)
		}
		img.Release()
	}
	fmt.Printf("heap allocator:   %d ms for %d frames\n", time.Since(start).Milliseconds(), iterations)

	pool := memref.NewPoolAllocator[float32]()
	start = time.Now()
	for i := 0; i < iterations; i++ {
		img, err := imgref.FromPixels[float32](src, opts, memref.WithAllocator[float32](pool))
		if err != nil {
			log.Fatalf("ingest: %v", err)
		}
		img.Release()
	}
	hits, misses := pool.Metrics()
	fmt.Printf("pooled allocator: %d ms for %d frames (pool hits %d, misses %d)\n",
		time.Since(start).Milliseconds(), iterations, hits, misses)
}
