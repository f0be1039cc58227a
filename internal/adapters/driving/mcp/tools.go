package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/upload"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the indexed papers"`
	Limit int    `json:"limit,omitempty" jsonschema:"number of passages to retrieve (default 1)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Query        string          `json:"query"`
	Answer       string          `json:"answer"`
	Sources      []domain.Source `json:"sources"`
	ResultsFound int             `json:"resultsFound"`
}

// IngestInput is the input schema for the ingest_pdf tool.
type IngestInput struct {
	Path string `json:"path" jsonschema:"absolute path of a local PDF file"`
}

// IngestOutput is the output schema for the ingest_pdf tool.
type IngestOutput struct {
	Filename     string           `json:"filename"`
	Pages        int              `json:"pages"`
	Chunks       int              `json:"chunks"`
	SampleResult []domain.Passage `json:"sampleResult"`
	Status       string           `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded on the indexed research papers, with page citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_pdf",
		Description: "Index a local PDF so later questions can cite it",
	}, s.handleIngest)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	resp, err := s.ports.Chat.Ask(ctx, domain.ChatQuery{Query: input.Query, Limit: input.Limit})
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := resp.Sources
	if sources == nil {
		sources = []domain.Source{}
	}

	return nil, AskOutput{
		Query:        resp.Query,
		Answer:       resp.Answer,
		Sources:      sources,
		ResultsFound: resp.ResultsFound,
	}, nil
}

// handleIngest handles the ingest_pdf tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	file, err := upload.FromPath(input.Path)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	result, err := s.ports.Ingestion.IngestPDF(ctx, file)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	sample := result.SampleResult
	if sample == nil {
		sample = []domain.Passage{}
	}

	return nil, IngestOutput{
		Filename:     result.Filename,
		Pages:        result.Pages,
		Chunks:       result.Chunks,
		SampleResult: sample,
		Status:       result.Status,
	}, nil
}
