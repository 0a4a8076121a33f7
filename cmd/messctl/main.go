// Command messctl is a line-oriented student/admin client for the mess API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messapp/internal/client"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("api", envOr("MESS_API_URL", "http://localhost:8080"), "mess API base URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*baseURL)
	sh := newShell(c, c, os.Stdout, time.Now)
	if err := sh.run(ctx, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, "messctl:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
