// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qissahq/qissa/internal/platform/constants"
)

// # Store Policy

func TestNewStore_AppliesPlatformDefaults(t *testing.T) {
	store, ok := NewStore(nil, 0, 0).(*pgStore)
	require.True(t, ok)

	assert.Equal(t, constants.DefaultTaskMaxAttempts, store.maxAttempts)
	assert.Equal(t, constants.DefaultTaskLease, store.lease)
}

func TestNewStore_HonorsConfiguredPolicy(t *testing.T) {
	store, ok := NewStore(nil, 7, 3*time.Minute).(*pgStore)
	require.True(t, ok)

	assert.Equal(t, 7, store.maxAttempts)
	assert.Equal(t, 3*time.Minute, store.lease)
}

// A worker killed mid-task leaves its claim in running. The claim query has
// to offer that row up again once the lease expires, or the task and its
// chapter stay stuck forever.
func TestClaimQuery_ReclaimsLeaseExpiredRunningTasks(t *testing.T) {
	store := NewStore(nil, 0, 0).(*pgStore)
	query := store.claimQuery()

	assert.Contains(t, query, "FOR UPDATE SKIP LOCKED")
	assert.Contains(t, query, "(status = $2 AND runat <= NOW())")
	assert.Contains(t, query, "(status = $1 AND updatedat < NOW() - make_interval(secs => $3))")
	assert.Contains(t, query, "attempts = attempts + 1", "a reclaim counts against the attempt budget")
}
