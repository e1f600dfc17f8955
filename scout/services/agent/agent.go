package agent

import (
	"context"
	"fmt"

	"scout/scout/services/llm"
	"scout/scout/types"
	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

const searchSystemPrompt = `You are a research assistant with web search capabilities.

When asked about current events or recent information, use the web_search tool to find accurate, up-to-date information. Then synthesize the results and cite sources as [Title](URL).`

const defaultSystemPrompt = "You are a helpful assistant."

// ResearchAgent relays queries to the model, optionally with the provider's
// web-search tool enabled, and translates the upstream stream into
// normalized client events.
type ResearchAgent struct {
	client   *llm.AnthropicClient
	config   AgentConfig
	keywords []string
}

func NewResearchAgent(client *llm.AnthropicClient, cfg AgentConfig) *ResearchAgent {
	keywords := make([]string, 0, len(searchKeywords)+len(cfg.ExtraKeywords))
	keywords = append(keywords, searchKeywords...)
	keywords = append(keywords, cfg.ExtraKeywords...)
	return &ResearchAgent{
		client:   client,
		config:   cfg,
		keywords: keywords,
	}
}

// Respond drives one streaming model call. Events arrive lazily on the
// returned channel: zero or more thinking/text events, then either
// (done, complete) or a single error. The channel closes after the
// terminal event; cancelling ctx aborts the upstream call.
func (a *ResearchAgent) Respond(ctx context.Context, query string, history []types.HistoryEntry) <-chan types.AgentEvent {
	out := make(chan types.AgentEvent)

	go func() {
		defer close(out)
		defer logging.LogDuration(ctx, "agent_respond")()

		emit := func(ev types.AgentEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		messages := make([]llm.Message, 0, len(history)+1)
		for _, h := range history {
			messages = append(messages, llm.Message{Role: h.Role, Content: h.Content})
		}
		messages = append(messages, llm.Message{Role: "user", Content: query})

		useSearch := a.ShouldSearch(query)

		req := llm.MessagesRequest{
			Model:     a.config.Model,
			MaxTokens: a.config.MaxTokens,
			Messages:  messages,
			System:    defaultSystemPrompt,
		}
		if useSearch {
			if !emit(types.AgentEvent{Type: types.EventThinking, Content: "🔍 Searching the web..."}) {
				return
			}
			req.System = searchSystemPrompt
			req.Tools = []llm.Tool{{Type: "web_search_20250305", Name: "web_search"}}
		}

		logging.AppLogger.Info("agent query",
			zap.Bool("use_search", useSearch),
			zap.Int("history_len", len(history)),
		)

		var currentText string
		toolUsed := false
		searchExecuted := false

		events, errCh := a.client.Stream(ctx, req)
		for ev := range events {
			switch ev.Type {
			case llm.EventContentBlockStart:
				if ev.ContentBlock == nil {
					continue
				}
				switch ev.ContentBlock.Type {
				case llm.BlockToolUse, llm.BlockServerToolUse:
					toolUsed = true
					if !emit(types.AgentEvent{Type: types.EventThinking, Content: "🌐 Executing web search..."}) {
						return
					}
				case llm.BlockWebSearchResult:
					searchExecuted = true
					if !emit(types.AgentEvent{Type: types.EventThinking, Content: "📊 Analyzing search results..."}) {
						return
					}
				}
			case llm.EventContentBlockDelta:
				if ev.Delta == nil || ev.Delta.Type != llm.DeltaText || ev.Delta.Text == "" {
					continue
				}
				currentText += ev.Delta.Text
				if !emit(types.AgentEvent{Type: types.EventText, Content: ev.Delta.Text}) {
					return
				}
			}
			// everything else (message_start, ping, stops) is ignored
		}

		if err := <-errCh; err != nil {
			logging.ErrorLogger.Error("agent stream failed", zap.Error(err))
			emit(types.AgentEvent{Type: types.EventError, Content: fmt.Sprintf("Error: %v", err)})
			return
		}

		sources := ExtractSources(currentText)

		var thinking string
		switch {
		case searchExecuted:
			thinking = "✅ Web search executed successfully\n" +
				fmt.Sprintf("📊 Found %d sources\n", len(sources)) +
				"🤖 Synthesized current information"
		case toolUsed:
			thinking = "🔧 Tool was called\n💡 Processed response"
		case useSearch:
			thinking = "⚠️ Search requested but not executed\n💡 Using available knowledge"
		default:
			thinking = "💡 Answered from knowledge base"
		}

		if !emit(types.AgentEvent{Type: types.EventDone, Sources: sources, Thinking: thinking}) {
			return
		}
		emit(types.AgentEvent{Type: types.EventComplete})
	}()

	return out
}
