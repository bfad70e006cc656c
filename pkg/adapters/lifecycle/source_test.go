package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/aretw0/fittrack/pkg/adapters/lifecycle"
	"github.com/aretw0/fittrack/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	changes := make(chan core.Event, 2)
	changes <- core.Event{Type: core.EventCreate, ID: "tracker/alice.csv"}
	changes <- core.Event{Type: core.EventModify, ID: "alice/nutrition.json"}
	close(changes)

	src := adapter.NewSource(changes)
	require.NoError(t, src.Start(context.Background()))

	var got []string
	for ev := range src.Events() {
		got = append(got, ev.String())
	}
	assert.Equal(t, []string{"CREATE tracker/alice.csv", "MODIFY alice/nutrition.json"}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := adapter.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "events channel is closed")
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
