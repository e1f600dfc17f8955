// Terminal REPL for exercising the research agent without the HTTP server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"scout/scout/config"
	"scout/scout/services/agent"
	"scout/scout/services/llm"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	if cfg.AnthropicAPIKey == "" {
		fmt.Fprintln(os.Stderr, "ANTHROPIC_API_KEY is required")
		os.Exit(1)
	}

	client := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL)
	researchAgent := agent.NewResearchAgent(client, agent.LoadAgentConfig(cfg.AgentConfigPath))

	var history []types.HistoryEntry
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("scout repl - type a question, 'exit' to quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" {
			break
		}

		var answer string
		for ev := range researchAgent.Respond(context.Background(), query, history) {
			switch ev.Type {
			case types.EventThinking:
				fmt.Printf("[%s]\n", ev.Content)
			case types.EventText:
				fmt.Print(ev.Content)
				answer += ev.Content
			case types.EventDone:
				fmt.Printf("\n--- %d sources ---\n%s\n", len(ev.Sources), ev.Thinking)
			case types.EventError:
				fmt.Printf("\n%s\n", ev.Content)
			}
		}

		if answer != "" {
			history = append(history,
				types.HistoryEntry{Role: "user", Content: query},
				types.HistoryEntry{Role: "assistant", Content: answer},
			)
		}
	}
}
