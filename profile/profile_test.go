package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNoopStore(t *testing.T) {
	out, err := NoopStore{}.Ensure(context.Background(), uuid.New())
	require.Nil(t, err)
	require.Equal(t, OutcomeSkipped, out)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "created", OutcomeCreated.String())
	require.Equal(t, "failed", OutcomeFailed.String())
}
