package policy

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/tallgrass/types"
)

//go:embed prompts/select_action.txt
var selectActionPrompt string

var selectActionTmpl = template.Must(template.New("select_action").Parse(selectActionPrompt))

// generator produces text for a prompt. It is satisfied by the Gemini model
// wrapper and by fakes in tests.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiModel struct {
	model *genai.GenerativeModel
}

func (g geminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

// Gemini asks a Gemini model for each action. Any failure, whether a
// transport error, an unparsable reply or an out-of-range action, falls
// back to Fallback.
type Gemini struct {
	client *genai.Client
	gen    generator

	Fallback      Policy
	Timeout       time.Duration
	CombatActions int

	// LastReason is the model's explanation for its most recent choice.
	LastReason string
	// LastErr records why the most recent call fell back, if it did.
	LastErr error
}

// NewGemini connects to the Gemini API with the given key and model name.
func NewGemini(ctx context.Context, apiKey, model string, fallback Policy) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.2)
	return &Gemini{
		client:   client,
		gen:      geminiModel{model: m},
		Fallback: fallback,
		Timeout:  20 * time.Second,
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) SelectAction(obs types.Observation) int {
	ctx := context.Background()
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	return g.SelectActionContext(ctx, obs)
}

// SelectActionContext is SelectAction with a caller-supplied context.
func (g *Gemini) SelectActionContext(ctx context.Context, obs types.Observation) int {
	n := ActionCount(obs.Mode, g.CombatActions)
	action, reason, err := g.ask(ctx, obs, n)
	g.LastReason, g.LastErr = reason, err
	if err != nil {
		if g.Fallback != nil {
			return g.Fallback.SelectAction(obs)
		}
		return 0
	}
	return action
}

func (g *Gemini) ask(ctx context.Context, obs types.Observation, n int) (int, string, error) {
	prompt, err := buildPrompt(obs, n)
	if err != nil {
		return 0, "", err
	}
	text, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return 0, "", err
	}
	action, reason, err := parseReply(text)
	if err != nil {
		return 0, "", err
	}
	if action < 0 || action >= n {
		return 0, reason, fmt.Errorf("action %d is outside [0, %d)", action, n)
	}
	return action, reason, nil
}

func buildPrompt(obs types.Observation, n int) (string, error) {
	data := struct {
		Mode      types.Mode
		Vector    []float32
		Map       []string
		Actions   int
		MaxAction int
	}{Mode: obs.Mode, Actions: n, MaxAction: n - 1}

	switch obs.Mode {
	case types.ModeCombat:
		if len(obs.Vector) < 10 {
			return "", fmt.Errorf("combat observation has %d values, want 10", len(obs.Vector))
		}
		data.Vector = obs.Vector
	default:
		g, pos, ok := GridFromObservation(obs)
		if !ok {
			return "", fmt.Errorf("exploration observation has no usable grid")
		}
		data.Map = g.Render(pos)
	}

	var buf bytes.Buffer
	if err := selectActionTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var firstInt = regexp.MustCompile(`-?\d+`)

// parseReply reads the YAML reply. Models sometimes wrap it in a code fence
// or answer with a bare number, so both are accepted.
func parseReply(text string) (int, string, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var reply struct {
		Action *int   `yaml:"action"`
		Reason string `yaml:"reason"`
	}
	if err := yaml.Unmarshal([]byte(clean), &reply); err == nil && reply.Action != nil {
		return *reply.Action, reply.Reason, nil
	}

	m := firstInt.FindString(clean)
	if m == "" {
		return 0, "", fmt.Errorf("no action in reply %q", clean)
	}
	action, err := strconv.Atoi(m)
	if err != nil {
		return 0, "", err
	}
	return action, "", nil
}
