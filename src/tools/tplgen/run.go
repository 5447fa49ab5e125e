// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"fmt"
	"os"

	tplgen "github.com/forgeworks/mcp-creator/src/tools/tplgen/internal"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s DEFINITION.json [OUTPUT_ROOT]\n", os.Args[0])
		os.Exit(1)
	}

	outputRoot := ""
	if len(os.Args) > 2 {
		outputRoot = os.Args[2]
	}

	if err := tplgen.Generate(os.Args[1], outputRoot); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating template: %v\n", err)
		os.Exit(1)
	}
}
