// Package main provides the GCN CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("GCN %s\n", version)
		return
	}

	fmt.Println("GCN - Graph Convolutional Networks for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("Training lives in examples/cora:")
	fmt.Println("  go run ./examples/cora -data ./data")
}
