package assistant

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedClient_Ask(t *testing.T) {
	ctx := context.Background()

	first := NewCannedClient(WithSource(rand.NewSource(42)))
	second := NewCannedClient(WithSource(rand.NewSource(42)))

	for i := 0; i < 10; i++ {
		a, err := first.Ask(ctx, "what is a neural network?")
		require.NoError(t, err)
		b, err := second.Ask(ctx, "anything else")
		require.NoError(t, err)

		assert.Contains(t, CannedResponses, a)
		assert.Equal(t, a, b, "same seed gives the same answers regardless of the question")
	}
}

func TestCannedClient_Delay(t *testing.T) {
	client := NewCannedClient(WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Ask(ctx, "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
