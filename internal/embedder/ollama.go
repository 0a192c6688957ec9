package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the local Ollama API address.
	DefaultEndpoint = "http://localhost:11434"

	// DefaultModel is the embedding model used when none is configured.
	DefaultModel = "nomic-embed-text"

	// DefaultDimensions matches the default model's output width.
	DefaultDimensions = 768

	// requestTimeout bounds every provider round trip. Embedding calls are
	// the dominant latency source and must fail rather than hang.
	requestTimeout = 120 * time.Second
)

// OllamaProvider implements Embedder against the Ollama HTTP API.
type OllamaProvider struct {
	endpoint   string
	model      string
	dimensions int
	httpClient *http.Client
	cache      *Cache
}

// NewOllamaProvider creates an Ollama-backed embedder. cache may be nil to
// disable embedding reuse.
func NewOllamaProvider(endpoint, model string, dimensions int, cache *Cache) *OllamaProvider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OllamaProvider{
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
	}
}

type embedRequest struct {
	Model    string   `json:"model"`
	Input    []string `json:"input"`
	Truncate bool     `json:"truncate"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Embed returns the vector for a single text.
func (o *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProviderFailed)
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one provider call, preserving input order.
// Cached vectors are reused; only misses are sent to the provider.
func (o *OllamaProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if o.cache != nil {
			if vec, ok := o.cache.Get(ComputeHash(text)); ok {
				vectors[i] = vec
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	embedded, err := o.callEmbed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missing) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
			ErrProviderFailed, len(embedded), len(missing))
	}

	for j, vec := range embedded {
		vectors[missingIdx[j]] = vec
		if o.cache != nil {
			o.cache.Set(ComputeHash(missing[j]), vec)
		}
	}

	return vectors, nil
}

func (o *OllamaProvider) callEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: o.model, Input: texts, Truncate: true})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.endpoint+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, o.unreachable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusNotFound || strings.Contains(string(respBody), "not found") {
			return nil, o.modelNotFound()
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderFailed, resp.StatusCode, string(respBody))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrProviderFailed, err)
	}
	if len(embedResp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: provider returned zero embeddings", ErrProviderFailed)
	}

	return embedResp.Embeddings, nil
}

// Dimensions returns the configured vector length.
func (o *OllamaProvider) Dimensions() int {
	return o.dimensions
}

// HealthCheck verifies the endpoint is reachable and the configured model
// is installed (exact name, "<model>:latest", or any tag of the model).
func (o *OllamaProvider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create tags request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return o.unreachable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned status %d", ErrProviderFailed, resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("%w: decode tags response: %v", ErrProviderFailed, err)
	}

	for _, m := range tags.Models {
		if m.Name == o.model || m.Name == o.model+":latest" || strings.HasPrefix(m.Name, o.model) {
			return nil
		}
	}

	return o.modelNotFound()
}

func (o *OllamaProvider) unreachable(cause error) error {
	return fmt.Errorf("%w: cannot connect to Ollama at %s (is Ollama running? start it with `ollama serve`): %v",
		ErrProviderUnreachable, o.endpoint, cause)
}

func (o *OllamaProvider) modelNotFound() error {
	return fmt.Errorf("%w: model %q is not installed, pull it with `ollama pull %s`",
		ErrModelNotFound, o.model, o.model)
}
