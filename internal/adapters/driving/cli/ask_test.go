package cli

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/rest"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/services"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [query]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ask")

	assert.ErrorContains(t, err, "accepts 1 arg(s)")
}

func TestAskCmd_HasLimitFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "1", flag.DefValue)
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "ask", "-n", "3", "what is latent diffusion")

	require.NoError(t, err)
	assert.Contains(t, out, "learned latent space")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] ldm.pdf p.2")
	assert.Equal(t, domain.ChatQuery{Query: "what is latent diffusion", Limit: 3}, ts.chat.last)
	assert.Equal(t, 1, ts.closed)
}

func TestAskCmd_RecordsHistory(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "ask", "what is attention")
	require.NoError(t, err)

	msgs, err := ts.history.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "what is attention", msgs[0].Content)
	assert.Len(t, msgs[1].Sources, 1)
}

func TestAskCmd_NoHistory(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "ask", "--no-history", "what is attention")
	require.NoError(t, err)

	msgs, err := ts.history.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestAskCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "ask", "--json", "q")
	require.NoError(t, err)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "q", resp.Query)
	assert.Equal(t, 1, resp.ResultsFound)
}

func TestAskCmd_Errors(t *testing.T) {
	t.Run("blank query", func(t *testing.T) {
		ts := setupTestServices(t)

		_, err := execute(t, "ask", "   ")

		assert.ErrorIs(t, err, domain.ErrQueryRequired)
		assert.Zero(t, ts.built)
	})

	t.Run("chat failure", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.chat.err = errBoom

		_, err := execute(t, "ask", "q")

		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("initialisation failure", func(t *testing.T) {
		ts := setupTestServices(t)
		ts.buildErr = domain.ErrEmbeddingUnavailable

		_, err := execute(t, "ask", "q")

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestAskCmd_Server(t *testing.T) {
	ts := setupTestServices(t)

	readiness := services.NewReadiness()
	require.NoError(t, readiness.MarkReady(services.Capabilities{Ingestion: ts.ingestion, Chat: ts.chat}))
	server, err := rest.NewServer(&rest.Ports{Ingestion: readiness, Chat: readiness, Readiness: readiness},
		domain.DefaultSettings().Server)
	require.NoError(t, err)
	httpServer := httptest.NewServer(server.Handler())
	defer httpServer.Close()

	out, err := execute(t, "ask", "--server", httpServer.URL, "--no-history", "remote question")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] ldm.pdf p.2")
	assert.Equal(t, "remote question", ts.chat.last.Query)
	assert.Zero(t, ts.built, "no local clients with --server")
}

func TestFormatSource(t *testing.T) {
	page, name := 4, "a.pdf"

	assert.Equal(t, "a.pdf p.4", formatSource(domain.Source{Page: &page, Source: &name}))
	assert.Equal(t, "? p.?", formatSource(domain.Source{}))
}
