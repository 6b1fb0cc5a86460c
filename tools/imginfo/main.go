package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kestrelml/stridebuf/imgref"
	"github.com/kestrelml/stridebuf/options"
	"github.com/kestrelml/stridebuf/pixel"
	log "github.com/sirupsen/logrus"
)

func main() {
	infile := flag.String("i", "", "input png file")
	channels := flag.Int("c", 1, "channels to ingest as (1 or 3)")
	normalize := flag.Bool("n", false, "normalize samples to [0,1]")
	flag.Parse()

	if *infile == "" {
		fmt.Printf("input file must be specified\n")
		os.Exit(1)
	}

	f, err := os.Open(*infile)
	if err != nil {
		log.Errorf("Error opening file: %v\n", err)
		return
	}
	defer f.Close()

	codec := pixel.NewPNGCodec(*channels)
	buf, err := codec.Decode(f)
	if err != nil {
		log.Errorf("Error decoding: %v\n", err)
		return
	}

	img, err := imgref.FromPixels[float32](buf, &options.IngestOptions{Normalize: *normalize})
	if err != nil {
		log.Errorf("Error ingesting: %v\n", err)
		return
	}

	hdr := img.Header()
	fmt.Printf("layout     %s\n", img.Layout().Kind)
	fmt.Printf("rank       %d\n", hdr.Rank)
	fmt.Printf("sizes      %v\n", hdr.Sizes)
	fmt.Printf("strides    %v\n", hdr.Strides)
	fmt.Printf("elements   %d\n", img.NumElements())
	fmt.Printf("channels   %d\n", img.Channels())
	fmt.Printf("normalized %v\n", img.Normalized())
}
