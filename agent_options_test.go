// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import (
	"testing"
	"time"

	"github.com/pion/logging"
	"github.com/pion/transport/v3/stdnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRole(t *testing.T) {
	t.Run("sets role", func(t *testing.T) {
		agent, err := NewAgent(WithRole(Controlled))
		require.NoError(t, err)
		assert.Equal(t, Controlled, agent.Role())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewAgent(WithRole(Role(7)))
		require.ErrorIs(t, err, ErrUnknownRole)
	})
}

func TestWithPairOrder(t *testing.T) {
	for _, order := range []PairOrder{PairOrderDescending, PairOrderAscending} {
		agent, err := NewAgent(WithPairOrder(order))
		require.NoError(t, err)
		assert.Equal(t, order, agent.pairOrder)
	}

	for _, order := range []PairOrder{PairOrderUnsorted, PairOrder(9)} {
		_, err := NewAgent(WithPairOrder(order))
		require.ErrorIs(t, err, ErrUnknownPairOrder)
	}
}

func TestWithMaxChecklistPairs(t *testing.T) {
	for _, limit := range []int{1, 10, MaxChecklistPairs} {
		agent, err := NewAgent(WithMaxChecklistPairs(limit))
		require.NoError(t, err)
		assert.Equal(t, limit, agent.maxPairs)
	}

	for _, limit := range []int{-1, 0, MaxChecklistPairs + 1} {
		_, err := NewAgent(WithMaxChecklistPairs(limit))
		require.ErrorIs(t, err, ErrInvalidMaxPairs)
	}
}

func TestWithSTUNTimeout(t *testing.T) {
	agent, err := NewAgent(WithSTUNTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, agent.stunTimeout)
}

func TestWithNet(t *testing.T) {
	nw, err := stdnet.NewNet()
	require.NoError(t, err)

	agent, err := NewAgent(WithNet(nw))
	require.NoError(t, err)
	assert.Equal(t, nw, agent.net)
}

func TestWithLoggerFactory(t *testing.T) {
	loggerFactory := logging.NewDefaultLoggerFactory()

	agent, err := NewAgent(WithLoggerFactory(loggerFactory))
	require.NoError(t, err)
	assert.Equal(t, loggerFactory, agent.loggerFactory)
}

func TestOptionsApplyInOrder(t *testing.T) {
	agent, err := NewAgent(
		WithRole(Controlled),
		WithMaxChecklistPairs(10),
		WithRole(Controlling),
	)
	require.NoError(t, err)
	assert.Equal(t, Controlling, agent.Role())
	assert.Equal(t, 10, agent.maxPairs)

	// The first failing option aborts construction.
	_, err = NewAgent(WithMaxChecklistPairs(0), WithRole(Role(7)))
	require.ErrorIs(t, err, ErrInvalidMaxPairs)
	require.NotErrorIs(t, err, ErrUnknownRole)
}
