package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Protocol-Lattice/lattice-engineer/src"
)

const (
	toolParseSubtasks     = "parse_subtasks"
	toolParseStructure    = "parse_structure"
	toolClassifySubtask   = "classify_subtask"
	toolExtractCodeBlocks = "extract_code_blocks"
	toolSanitizeGoal      = "sanitize_goal"
)

func main() {
	s := server.NewMCPServer(
		"Lattice Engineer MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	registerTools(s)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func registerTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(toolParseSubtasks,
		mcp.WithDescription("Split a numbered list into ordered subtasks, dropping prefixes such as '1.' or '2.1.'"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Numbered list text")),
	), handleParseSubtasks)

	s.AddTool(mcp.NewTool(toolParseStructure,
		mcp.WithDescription("Parse an indented directory listing (4 spaces per level) into a tree"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Indented directory structure")),
	), handleParseStructure)

	s.AddTool(mcp.NewTool(toolClassifySubtask,
		mcp.WithDescription("Decide whether a subtask is a file operation, needs the model, or is executed directly"),
		mcp.WithString("subtask", mcp.Required(), mcp.Description("Subtask text")),
	), handleClassifySubtask)

	s.AddTool(mcp.NewTool(toolExtractCodeBlocks,
		mcp.WithDescription("Extract fenced code blocks paired with 'Filename:' annotations from a model response"),
		mcp.WithString("response", mcp.Required(), mcp.Description("Model response text")),
	), handleExtractCodeBlocks)

	s.AddTool(mcp.NewTool(toolSanitizeGoal,
		mcp.WithDescription("Return the project folder name a goal maps to"),
		mcp.WithString("goal", mcp.Required(), mcp.Description("Software development goal")),
	), handleSanitizeGoal)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func handleParseSubtasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	subtasks := src.ParseSubtasks(text)
	if subtasks == nil {
		subtasks = []src.Subtask{}
	}
	return jsonResult(subtasks)
}

func handleParseStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	s := src.ParseStructure(text)
	return jsonResult(map[string]any{
		"nodes":     s.Len(),
		"formatted": s.Format(),
		"tree":      s.Children,
	})
}

func handleClassifySubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subtask := request.GetString("subtask", "")
	if strings.TrimSpace(subtask) == "" {
		return mcp.NewToolResultError("subtask is required"), nil
	}
	return mcp.NewToolResultText(src.Classify(subtask).String()), nil
}

type extractedBlock struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Rejected string `json:"rejected,omitempty"`
}

func handleExtractCodeBlocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := request.GetString("response", "")
	artifacts := src.ExtractArtifacts(response)
	if len(artifacts) == 0 {
		return mcp.NewToolResultText("No code blocks found in the response."), nil
	}
	out := make([]extractedBlock, 0, len(artifacts))
	for _, a := range artifacts {
		b := extractedBlock{Path: a.Path, Content: a.Content}
		if clean, err := src.NormalizeArtifactPath(a.Path); err != nil {
			b.Rejected = err.Error()
		} else {
			b.Path = clean
		}
		out = append(out, b)
	}
	return jsonResult(out)
}

func handleSanitizeGoal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal := request.GetString("goal", "")
	if strings.TrimSpace(goal) == "" {
		return mcp.NewToolResultError(src.ErrEmptyGoal.Error()), nil
	}
	return mcp.NewToolResultText(src.SanitizeGoal(goal)), nil
}
