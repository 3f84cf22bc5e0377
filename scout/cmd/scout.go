// Command-line interface for exercising the web tools without a server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"scout/scout/config"
	"scout/scout/services/ratelimit"
	"scout/scout/services/toolcall"
	"scout/scout/services/webfetch"
	"scout/scout/services/websearch"
	"scout/scout/types"
	"scout/scout/utils/color"
	"scout/scout/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	var providers []websearch.Provider
	if cfg.GoogleSearchAPIKey != "" && cfg.GoogleSearchCX != "" {
		providers = append(providers, websearch.NewGoogleProvider(cfg.GoogleSearchAPIKey, cfg.GoogleSearchCX))
	}
	if cfg.BraveSearchAPIKey != "" {
		providers = append(providers, websearch.NewBraveProvider(cfg.BraveSearchAPIKey))
	}
	providers = append(providers, websearch.NewDuckDuckGoProvider())

	aggregator := websearch.NewAggregator(providers, ratelimit.New(cfg.SearchRateLimit, time.Minute))
	fetcher := webfetch.NewService(ratelimit.New(cfg.FetchRateLimit, time.Minute), nil)
	orchestrator := toolcall.NewOrchestrator(aggregator, fetcher)

	fmt.Println(color.ColorInfo("scout web tools. Commands:"))
	fmt.Println("  search <query>")
	fmt.Println("  fetch <url>")
	fmt.Println("  exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.ColorPrompt("scout> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		name, arg, _ := strings.Cut(line, " ")
		var call types.ToolCall
		switch name {
		case toolcall.ToolSearch:
			call = types.ToolCall{
				ID:        uuid.NewString(),
				Name:      toolcall.ToolSearch,
				Arguments: map[string]interface{}{"query": arg},
			}
		case toolcall.ToolFetch:
			call = types.ToolCall{
				ID:        uuid.NewString(),
				Name:      toolcall.ToolFetch,
				Arguments: map[string]interface{}{"url": arg},
			}
		default:
			fmt.Println(color.ColorWarning("unknown command: " + name))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result := orchestrator.Execute(ctx, call)
		cancel()

		for _, part := range result.Content {
			if part.Type != "text" {
				continue
			}
			if result.IsError {
				fmt.Println(color.ColorError(part.Text))
			} else {
				fmt.Println(part.Text)
			}
			fmt.Println()
		}
	}
}
