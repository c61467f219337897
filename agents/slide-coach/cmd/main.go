package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	slidecoach "slide-coach/agents/slide-coach"
	"slide-coach/internal/models"
	"slide-coach/shared/config"
	"slide-coach/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := slidecoach.NewSlideCoachAgent(cfg)
	s := scheduler.New(cfg, agent)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--once":
			fmt.Println("Running once...")
			if err := agent.Initialize(); err != nil {
				log.Fatalf("Failed to initialize agent: %v", err)
			}
			if err := s.RunOnce(ctx); err != nil {
				log.Fatalf("Failed to run: %v", err)
			}
			return
		case "--enqueue":
			if err := enqueue(agent, os.Args[2:]); err != nil {
				log.Fatalf("Failed to enqueue job: %v", err)
			}
			return
		}
	}

	fmt.Println("Starting scheduler...")

	if err := s.Start(ctx); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

// enqueue queues an alignment job from a script file and slide images:
// --enqueue script.txt slide1.png slide2.png ...
func enqueue(agent *slidecoach.SlideCoachAgent, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: --enqueue <script-file> <slide-image>...")
	}

	if err := agent.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	script, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read script file: %w", err)
	}

	var slides []models.SlideInput
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read slide image %s: %w", path, err)
		}
		slides = append(slides, models.SlideInput{
			DataURL: fmt.Sprintf("data:%s;base64,%s", imageMIME(path), base64.StdEncoding.EncodeToString(data)),
		})
	}

	job, err := agent.Store().Enqueue(string(script), slides)
	if err != nil {
		return err
	}

	fmt.Printf("Enqueued job %s (%d slides)\n", job.ID, len(slides))
	return nil
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
