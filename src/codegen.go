package src

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const modelSuccessOutcome = "Subtask executed with model assistance."

// Generation is what one model-assisted subtask produced.
type Generation struct {
	Subtask  Subtask
	Response string
	Writes   []WriteResult
}

// ModelHandler asks the model to carry out a subtask with the whole workspace
// as context and writes the fenced blocks it returns.
type ModelHandler struct {
	gw     Gateway
	ws     *Workspace
	writer *Writer
	logger *slog.Logger

	// OnGeneration, when set, receives every successful generation.
	OnGeneration func(Generation)
}

func NewModelHandler(gw Gateway, ws *Workspace, writer *Writer, logger *slog.Logger) *ModelHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if writer == nil {
		writer = NewWriter(nil, logger)
	}
	return &ModelHandler{gw: gw, ws: ws, writer: writer, logger: logger}
}

// BuildSubtaskConversation composes the request for one subtask.
func BuildSubtaskConversation(subtask, contextBlock string) []Message {
	return []Message{
		SystemMessage(EngineerSystemPrompt),
		UserMessage(fmt.Sprintf(SubtaskPromptTemplate, subtask, contextBlock)),
	}
}

func (h *ModelHandler) Handle(ctx context.Context, st Subtask) (string, error) {
	block, files, size, err := h.ws.ContextBlock()
	if err != nil {
		return "", fmt.Errorf("build workspace context: %w", err)
	}
	h.logger.Debug("workspace context", "subtask", st.Index, "files", files, "bytes", size)

	// a gateway failure returns before anything touches the workspace
	resp, err := h.gw.Complete(ctx, BuildSubtaskConversation(st.Text, block))
	if err != nil {
		return "", err
	}
	h.logger.Debug("model response", "subtask", st.Index, "response", resp)

	gen := Generation{Subtask: st, Response: resp}
	artifacts := ExtractArtifacts(resp)
	if len(artifacts) == 0 {
		h.logger.Warn("model response had no code blocks", "subtask", st.Index, "error", ErrNoCodeBlocks)
		h.notify(gen)
		return modelSuccessOutcome + " " + capitalize(ErrNoCodeBlocks.Error()) + ".", nil
	}

	gen.Writes = h.writer.Write(h.ws, artifacts)
	h.notify(gen)

	skipped := 0
	for _, w := range gen.Writes {
		if w.Status == StatusRejected || w.Status == StatusFailed {
			skipped++
		}
	}
	if skipped > 0 {
		return fmt.Sprintf("%s %d of %d files not written.", modelSuccessOutcome, skipped, len(gen.Writes)), nil
	}
	return modelSuccessOutcome, nil
}

func (h *ModelHandler) notify(g Generation) {
	if h.OnGeneration != nil {
		h.OnGeneration(g)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
