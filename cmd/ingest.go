package main

import (
	"fmt"
	"os"

	"github.com/kestrelml/stridebuf/imgref"
	"github.com/kestrelml/stridebuf/pixel"
)

func main() {
	fmt.Printf("So it begins...\n")

	f, err := os.Open(`c:\temp\gray.png`)
	if err != nil {
		fmt.Printf("Error opening: %v\n", err)
		return
	}
	defer f.Close()

	buf, err := pixel.NewPNGCodec(1).Decode(f)
	if err != nil {
		fmt.Printf("Error decoding: %v\n", err)
		return
	}

	if img, err := imgref.FromPixels[float32](buf, nil); err != nil {
		fmt.Printf("Error ingesting: %v\n", err)
	} else {
		fmt.Printf("Ingested successfully: %v\n", img.Sizes())
	}
}
