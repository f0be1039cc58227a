package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for research-assistant resources.
	uriScheme = "research-assistant://"

	// defaultHistoryLimit is the number of messages the history resource returns.
	defaultHistoryLimit = 50
)

// statusInfo is the body of the status resource.
type statusInfo struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Whether the AI components are initialised",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Most recent local chat messages",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{limit}",
		Name:        "history-limit",
		Description: "The given number of most recent local chat messages",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleStatusResource reports readiness.
func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := statusInfo{Ready: true}
	if s.ports.Readiness != nil {
		info.Ready = s.ports.Readiness.Ready()
		if err := s.ports.Readiness.Err(); err != nil {
			info.Error = err.Error()
		}
	}
	return jsonResource(req.Params.URI, info)
}

// handleHistoryResource returns recent chat messages, oldest first.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResource(req.Params.URI, []domain.HistoryMessage{})
	}

	limit := defaultHistoryLimit
	if strings.HasPrefix(req.Params.URI, uriScheme+"history/") {
		limit = extractLimit(req.Params.URI)
		if limit <= 0 {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
	}

	msgs, err := s.ports.History.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	if msgs == nil {
		msgs = []domain.HistoryMessage{}
	}
	return jsonResource(req.Params.URI, msgs)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLimit extracts the limit from a URI like research-assistant://history/{limit}.
// Returns 0 when the URI does not carry a positive integer.
func extractLimit(uri string) int {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}

	n, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
