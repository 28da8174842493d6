// README: One-shot assistant call from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"wayfare/internal/ai"
	"wayfare/internal/config"
	"wayfare/internal/modules/assistant"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		question = "Find me a week in Bali in June for two, under $3000."
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	key := cfg.Chat.OpenAIKey
	if cfg.Chat.Provider == config.ChatGemini {
		key = cfg.Chat.GeminiKey
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	completer, err := ai.NewCompleter(ctx, cfg.Chat.Provider, key, cfg.Chat.Model)
	if err != nil {
		log.Fatalf("init chat backend: %v", err)
	}
	if c, ok := completer.(io.Closer); ok {
		defer c.Close()
	}

	fmt.Printf("Backend: %s\n", completer.Name())
	fmt.Printf("User: %s\n", question)

	reply, err := assistant.NewService(completer).Converse(ctx, []assistant.Message{
		{Role: string(ai.RoleUser), Content: question},
	})
	if err != nil {
		log.Fatalf("converse: %v", err)
	}
	fmt.Printf("Assistant: %s\n", reply)
}
