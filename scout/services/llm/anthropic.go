package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

const anthropicVersion = "2023-06-01"

type AnthropicClient struct {
	apiKey  string
	baseURL string
}

func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Stream opens a streaming messages call and delivers upstream events in
// arrival order. The event channel closes when the stream ends; the error
// channel then carries at most one error (transport, decode, or an error
// event from the API). Both channels are closed by the time the stream is
// done, so a drained consumer can do a final non-blocking error read.
func (c *AnthropicClient) Stream(ctx context.Context, req MessagesRequest) (<-chan StreamEvent, <-chan error) {
	defer logging.LogDuration(ctx, "anthropic_stream")()

	ch := make(chan StreamEvent)
	errCh := make(chan error, 1)

	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		errCh <- fmt.Errorf("anthropic request failed: %s - %s", resp.Status, string(b))
		close(ch)
		close(errCh)
		return ch, errCh
	}

	go func() {
		defer func() {
			close(ch)
			close(errCh)
			resp.Body.Close()
		}()

		reader := bufio.NewReader(resp.Body)

		for {
			select {
			case <-ctx.Done():
				logging.AppLogger.Info("anthropic stream context cancelled")
				errCh <- ctx.Err()
				return
			default:
			}

			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return
				}
				if ctx.Err() != nil {
					errCh <- ctx.Err()
					return
				}
				logging.ErrorLogger.Error("anthropic stream read error", zap.Error(err))
				errCh <- err
				return
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data:") {
				// event: lines are redundant; the data payload carries type
				continue
			}

			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}

			var event StreamEvent
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				logging.ErrorLogger.Error("anthropic stream JSON parse error",
					zap.Error(err), zap.String("raw_line", data))
				errCh <- fmt.Errorf("malformed stream event: %w", err)
				return
			}

			if event.Type == "error" {
				msg := "unknown stream error"
				if event.Error != nil {
					msg = event.Error.Message
				}
				errCh <- fmt.Errorf("anthropic stream error: %s", msg)
				return
			}

			if event.Type == EventMessageStop {
				return
			}

			select {
			case ch <- event:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return ch, errCh
}
