package main

import (
	"fmt"
	"reflect"

	"github.com/kestrelml/stridebuf/memref"
	"github.com/kestrelml/stridebuf/pixel"
)

// displays sizes of main structs to determine any padding wasteage
func memStats(input any) {

	rType := reflect.TypeOf(input)
	fmt.Printf("Size of %s : %d bytes\n", rType.Name(), rType.Size())

	if rType.Kind() == reflect.Struct {
		for i := 0; i < rType.NumField(); i++ {

			fmt.Printf("  Name %s\n", rType.FieldByIndex([]int{i}).Name)
			fmt.Printf("    Offset of    : %d bytes\n", rType.FieldByIndex([]int{i}).Offset)
			fmt.Printf("    Size of      : %d bytes\n", rType.FieldByIndex([]int{i}).Type.Size())
			fmt.Printf("    Alignment of : %d bytes\n", rType.FieldByIndex([]int{i}).Type.Align())
			fmt.Println()
		}
	}
}

func main() {
	memStats(memref.MemRef[float32]{})
	memStats(memref.Header{})
	memStats(pixel.Buffer{})
}
