package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Edunzz/monedillo/config"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// ExtractorService turns free-text user messages into candidate movements
// by calling the OpenRouter chat-completions API. Single attempt per call,
// no retries.
type ExtractorService struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

func NewExtractorService(cfg *config.Config) *ExtractorService {
	return &ExtractorService{
		apiKey:     cfg.OpenRouterAPIKey,
		model:      cfg.OpenRouterModel,
		apiURL:     openRouterURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model    string              `json:"model"`
	Messages []openRouterMessage `json:"messages"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ExtractionOutcome discriminates the result variants of one extraction
// call. Downstream code switches on it; there is no way to read a Tipo or
// Monto out of a failed extraction by accident.
type ExtractionOutcome int

const (
	// ExtractionOK: the model returned a JSON object with all three keys.
	ExtractionOK ExtractionOutcome = iota
	// ExtractionParseFailure: got a model reply, but it was not the
	// expected JSON object. RawText holds the reply verbatim.
	ExtractionParseFailure
	// ExtractionRequestFailure: the HTTP call itself failed (network,
	// timeout, non-2xx, undecodable envelope).
	ExtractionRequestFailure
)

type ExtractionResult struct {
	Outcome   ExtractionOutcome
	Tipo      string
	Monto     float64
	Categoria string
	RawText   string
	Err       error
}

func (r ExtractionResult) OK() bool { return r.Outcome == ExtractionOK }

// Extract sends the user text to the model and parses its reply into a
// candidate movement. Category membership is NOT validated here; that is
// the webhook handler's job.
func (s *ExtractorService) Extract(ctx context.Context, texto string) ExtractionResult {
	prompt := BuildExtractionPrompt(texto)

	reqBody := openRouterRequest{
		Model:    s.model,
		Messages: []openRouterMessage{{Role: "user", Content: prompt}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return requestFailure(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return requestFailure(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("HTTP-Referer", "https://tubot.com")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return requestFailure(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return requestFailure(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return requestFailure(fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode, string(body)))
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(body, &orResp); err != nil {
		return requestFailure(fmt.Errorf("failed to parse response envelope: %w", err))
	}
	if orResp.Error != nil {
		return requestFailure(fmt.Errorf("openrouter error: %s", orResp.Error.Message))
	}
	if len(orResp.Choices) == 0 {
		return requestFailure(fmt.Errorf("empty response from model"))
	}

	content := orResp.Choices[0].Message.Content

	// Pointers so a key the model omitted is distinguishable from a
	// zero value it produced.
	var parsed struct {
		Tipo      *string  `json:"tipo"`
		Monto     *float64 `json:"monto"`
		Categoria *string  `json:"categoria"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return ExtractionResult{
			Outcome: ExtractionParseFailure,
			RawText: content,
			Err:     fmt.Errorf("model output is not JSON: %w", err),
		}
	}
	if parsed.Tipo == nil || parsed.Monto == nil || parsed.Categoria == nil {
		return ExtractionResult{
			Outcome: ExtractionParseFailure,
			RawText: content,
			Err:     fmt.Errorf("model output missing expected keys"),
		}
	}

	return ExtractionResult{
		Outcome:   ExtractionOK,
		Tipo:      *parsed.Tipo,
		Monto:     *parsed.Monto,
		Categoria: *parsed.Categoria,
		RawText:   content,
	}
}

func requestFailure(err error) ExtractionResult {
	return ExtractionResult{Outcome: ExtractionRequestFailure, Err: err}
}
