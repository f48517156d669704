package src

import (
	"context"
	"log/slog"

	agent "github.com/Protocol-Lattice/go-agent"
	adk "github.com/Protocol-Lattice/go-agent/src/adk"
	adkmodules "github.com/Protocol-Lattice/go-agent/src/adk/modules"
	"github.com/Protocol-Lattice/go-agent/src/memory"
	"github.com/Protocol-Lattice/go-agent/src/models"
	"github.com/Protocol-Lattice/go-agent/src/tools"
	"github.com/google/uuid"
)

// AgentGateway routes completions through a go-agent Gemini agent.
type AgentGateway struct {
	agent  *agent.Agent
	logger *slog.Logger
}

func BuildAgent(ctx context.Context, model string) (*agent.Agent, error) {
	memOpts := memory.DefaultOptions()
	builder, err := adk.New(
		ctx,
		adk.WithDefaultSystemPrompt(EngineerSystemPrompt),
		adk.WithModules(
			adkmodules.InMemoryMemoryModule(512, memory.AutoEmbedder(), &memOpts),
			adkmodules.NewModelModule("gemini", func(_ context.Context) (models.Agent, error) {
				return models.NewGeminiLLM(ctx, model, "Software development engineer")
			}),
			adkmodules.NewToolModule("essentials",
				adkmodules.StaticToolProvider([]agent.Tool{&tools.EchoTool{}}, nil),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return builder.BuildAgent(ctx)
}

func NewAgentGateway(a *agent.Agent, logger *slog.Logger) *AgentGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &AgentGateway{agent: a, logger: logger}
}

func (g *AgentGateway) Complete(ctx context.Context, messages []Message) (string, error) {
	// A fresh session per call keeps the agent's memory from leaking between requests.
	session := uuid.NewString()
	g.logger.DebugContext(ctx, "sending completion request", "provider", "gemini", "session", session)

	resp, err := g.agent.Generate(ctx, session, flattenConversation(messages))
	if err != nil {
		return "", &TransportError{Provider: "gemini", Err: err}
	}
	return resp, nil
}
