package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/research-assistant/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

func TestHistoryService_RecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.NewHistoryStore())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	svc.now = func() time.Time { return fixed }

	q, err := svc.RecordQuestion(ctx, "What is latent diffusion?")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, q.Role)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, time.UTC, q.Timestamp.Location())

	page := 2
	name := "ldm.pdf"
	a, err := svc.RecordAnswer(ctx, "It denoises in latent space.", []domain.Source{{Page: &page, Source: &name}})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, a.Role)
	assert.NotEqual(t, q.ID, a.ID)

	msgs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, q.ID, msgs[0].ID)
	assert.Len(t, msgs[1].Sources, 1)

	require.NoError(t, svc.Clear(ctx))
	msgs, err = svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
