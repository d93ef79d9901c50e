package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/qsobot/internal/bot"
	"github.com/example/qsobot/internal/database"
	"github.com/example/qsobot/internal/qcodes"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	listPath := os.Getenv("QCODES_FILE")
	if listPath == "" {
		listPath = "data/qcodes.json"
	}
	codes, err := qcodes.Load(listPath)
	if err != nil {
		log.Fatalf("Failed to load Q-code list: %v", err)
	}
	log.Printf("Loaded %d Q-codes from %s", len(codes), listPath)

	b, err := bot.New(codes)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Printf("Bot error: %v", err)
	}

	b.Stop()
	log.Println("Bot stopped successfully")
}
