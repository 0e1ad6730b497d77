package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	n := NewNotification(LevelWarning, "제목", "내용")

	_, err := uuid.Parse(n.ID)
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, n.Level)
	assert.Equal(t, time.UTC, n.Timestamp.Location())
	assert.NotEqual(t, n.ID, NewNotification(LevelWarning, "제목", "내용").ID)
}
