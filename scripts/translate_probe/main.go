package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/FACorreiaa/go-heritage-routes/internal/api/translation"
)

var (
	model  = flag.String("model", translation.DefaultModel, "the model name, e.g. gemini-2.0-flash")
	target = flag.String("lang", "hi", "target language code")
	text   = flag.String("text", "The Vijayanagara Empire built Hampi on the banks of the Tungabhadra.", "text to translate")
)

// Sends one text through the Gemini translator, for checking keys and quota.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := translation.NewGeminiBackend(ctx, *model)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	start := time.Now()
	out, err := backend.Translate(ctx, *text, *target)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[%s, %s] %s\n", *target, time.Since(start).Round(time.Millisecond), out)
}
