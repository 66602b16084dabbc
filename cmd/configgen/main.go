package main

import (
	"flag"
	"log"

	"github.com/danmuck/pngme/internal/config"
)

const defaultPath = "pngme.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (default_chunk_type=%s max_payload_bytes=%d)",
			*input, cfg.DefaultChunkType, cfg.MaxPayloadBytes)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote config template to %s", *output)
}
