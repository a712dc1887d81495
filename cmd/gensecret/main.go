package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"taskboard/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	write := flag.Bool("write", false, "append SECRET_KEY to the env file")
	envFile := flag.String("env-file", ".env", "env file used with -write")
	flag.Parse()

	if err := run(*write, *envFile); err != nil {
		logger.Get().Fatalf("gensecret: %v", err)
	}
}

func run(write bool, envFile string) error {
	secret, err := generateSecret(32)
	if err != nil {
		return err
	}

	if !write {
		fmt.Println(secret)
		return nil
	}

	f, err := os.OpenFile(envFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", envFile, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "SECRET_KEY=%s\n", secret); err != nil {
		return fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	logger.Get().Infof("Secret key generated and saved to %s", envFile)
	return nil
}

// generateSecret returns n random bytes hex-encoded.
func generateSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
