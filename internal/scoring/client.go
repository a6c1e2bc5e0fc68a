package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const scoringPrompt = "Calculate the following scores for the given text: semantic similarity, " +
	"broad topic similarity, grammar, and disfluency. Each score should be on a scale of 0 to 100. " +
	"Output only the scores separated by commas.\n\nText: %s \n\n " +
	"Output only the scores separated by commas. I don't want any other text or explanation."

// Scores holds the four rubric dimensions returned by the model.
type Scores struct {
	SemanticSimilarity   float64
	BroadTopicSimilarity float64
	Grammar              float64
	Disfluency           float64
}

// Scorer turns transcript text into rubric scores.
type Scorer interface {
	Score(ctx context.Context, transcript string) (Scores, error)
}

type ClientOpts func(c *Client)

// Client calls a chat-completions style model endpoint and parses the four
// comma-separated scores out of the reply.
type Client struct {
	baseUrl    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Make sure we conform to Scorer interface
var _ Scorer = (*Client)(nil)

func NewClient(opts ...ClientOpts) *Client {
	c := &Client{
		baseUrl:    "https://api.openai.com/v1",
		model:      "gpt-4o-mini",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Score(ctx context.Context, transcript string) (Scores, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(scoringPrompt, transcript)},
		},
	})
	if err != nil {
		return Scores{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Scores{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Scores{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Scores{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Scores{}, fmt.Errorf("scoring model returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return Scores{}, err
	}
	if len(completion.Choices) == 0 {
		return Scores{}, fmt.Errorf("scoring model returned no choices")
	}

	return parseScores(completion.Choices[0].Message.Content)
}

// parseScores expects four comma-separated numbers in model output order:
// semantic similarity, broad topic similarity, grammar, disfluency.
func parseScores(content string) (Scores, error) {
	parts := strings.Split(strings.TrimSpace(content), ",")
	if len(parts) != 4 {
		return Scores{}, fmt.Errorf("expected 4 scores, got %d in %q", len(parts), content)
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Scores{}, fmt.Errorf("parsing score %d from %q: %w", i+1, content, err)
		}
		values[i] = v
	}

	return Scores{
		SemanticSimilarity:   values[0],
		BroadTopicSimilarity: values[1],
		Grammar:              values[2],
		Disfluency:           values[3],
	}, nil
}

func WithBaseUrl(baseUrl string) ClientOpts {
	return func(c *Client) {
		c.baseUrl = strings.TrimSuffix(baseUrl, "/")
	}
}

func WithAPIKey(apiKey string) ClientOpts {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func WithModel(model string) ClientOpts {
	return func(c *Client) {
		c.model = model
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOpts {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}
