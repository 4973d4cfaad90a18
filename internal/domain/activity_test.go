package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendActivity(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("EST", -5*3600))

	t.Run("No principal leaves the log untouched", func(t *testing.T) {
		var log []ActivityEntry
		assert.False(t, AppendActivity(&log, nil, ActionUpdatedContact, now))
		assert.Empty(t, log)
	})

	t.Run("Entry is attributed and stored in UTC", func(t *testing.T) {
		var log []ActivityEntry
		assert.True(t, AppendActivity(&log, &Principal{Name: "Sam"}, ActionCreatedContact, now))
		require.Len(t, log, 1)
		assert.Equal(t, ActivityEntry{Timestamp: now.UTC(), UserName: "Sam", Action: ActionCreatedContact}, log[0])
	})

	t.Run("Entries append in order", func(t *testing.T) {
		log := []ActivityEntry{{Timestamp: now.UTC(), UserName: "Sam", Action: ActionCreatedProject}}
		later := now.Add(time.Hour)
		assert.True(t, AppendActivity(&log, &Principal{Name: "Ana"}, ActionUpdatedProject, later))
		require.Len(t, log, 2)
		assert.Equal(t, ActionCreatedProject, log[0].Action)
		assert.Equal(t, "Ana", log[1].UserName)
		assert.Equal(t, later.UTC(), log[1].Timestamp)
	})
}
