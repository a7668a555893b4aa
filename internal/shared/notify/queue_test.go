package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_DrainDeliversOnce(t *testing.T) {
	q := NewQueue(4)
	q.Push(LevelInfo, "table settled")
	q.Push(LevelWarning, "order fetch failed")

	drained := q.Drain()
	require.Len(t, drained, 2)
	require.Equal(t, LevelInfo, drained[0].Level)
	require.Equal(t, "table settled", drained[0].Message)

	require.Empty(t, q.Drain())
	require.Zero(t, q.Len())
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue(3)
	for i := 1; i <= 5; i++ {
		q.Push(LevelInfo, fmt.Sprintf("notice %d", i))
	}
	drained := q.Drain()
	require.Len(t, drained, 3)
	require.Equal(t, "notice 3", drained[0].Message)
	require.Equal(t, "notice 5", drained[2].Message)
}

func TestQueue_IgnoresEmptyMessages(t *testing.T) {
	q := NewQueue(2)
	q.Push(LevelError, "")
	require.Zero(t, q.Len())
}
