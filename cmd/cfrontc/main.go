package main

import (
	"flag"
	"log"
	"os"

	"github.com/clarete/cfront"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "Path to the C source file")
		outputPath = flag.String("output", "/dev/stdout", "Path to the output file")
		std        = flag.String("std", "c89", "C standard to parse against (c89 or c99)")
	)
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("Input file not informed")
	}

	cfg := cfront.NewConfig()
	switch *std {
	case "c89":
		cfg.Std = cfront.StdC89
	case "c99":
		cfg.Std = cfront.StdC99
	default:
		log.Fatalf("Unknown -std value %q", *std)
	}

	mod, err := cfront.CompileFile(*inputPath, cfg, cfront.DefaultTargetInfo())
	if err != nil {
		log.Fatalf("Can't compile %s: %s", *inputPath, err.Error())
	}

	if err := os.WriteFile(*outputPath, []byte(cfront.DumpModule(mod)), 0644); err != nil {
		log.Fatalf("Can't write output: %s", err.Error())
	}
}
