// speechtester exercises the TTS dispatch path against the real endpoint.
// Useful for checking credentials and output format without running the
// gateway.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/kevintang/slate-gateway/internal/config"
	"github.com/kevintang/slate-gateway/internal/service/speech"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.Speech.Enabled {
		log.Fatal("speech service not configured, set SPEECH_API_KEY first")
	}

	text := flag.String("text", "", "text to synthesize")
	outDir := flag.String("out", "", "output directory (default from SPEECH_OUTPUT_DIR)")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")
	flag.Parse()

	if *text == "" {
		flag.Usage()
		log.Fatal("provide input with -text")
	}

	speechCfg := cfg.Speech
	if *outDir != "" {
		speechCfg.OutputDir = *outDir
	}

	svc := speech.NewService(speechCfg)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	path, err := svc.Synthesize(ctx, *text)
	if err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}

	log.Printf("synthesized %q in %s", *text, time.Since(start).Round(time.Millisecond))
	log.Printf("audio written to %s", path)
}
