package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mchlmayer/iathumb/internal/infra"
)

// envcheck validates the service configuration without starting the server.
// Useful before a deploy: it resolves every knob the API would use and prints
// the result with the key masked.
func main() {
	var envFile string
	flag.StringVar(&envFile, "env", "", "path to an env file to load before checking")
	flag.Parse()

	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", envFile, err)
			os.Exit(1)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-17s%s\n", "environment:", cfg.AppEnv)
	fmt.Printf("%-17s%s\n", "port:", cfg.Port)
	fmt.Printf("%-17s%s\n", "gemini api key:", maskKey(cfg.GeminiAPIKey))
	fmt.Printf("%-17s%s\n", "image model:", cfg.GeminiImageModel)
	fmt.Printf("%-17s%s\n", "edit model:", cfg.GeminiEditModel)
	fmt.Printf("%-17s%s\n", "prompt model:", cfg.GeminiPromptModel)
	fmt.Printf("%-17s%s\n", "prompt provider:", cfg.PromptProvider)
	fmt.Println("configuration ok")
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
