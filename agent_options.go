// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import (
	"fmt"
	"time"

	"github.com/pion/logging"
	"github.com/pion/transport/v3"
)

// AgentOption represents a function that can be used to configure an Agent.
type AgentOption func(*Agent) error

// WithRole sets the role the agent evaluates pair priorities with.
func WithRole(role Role) AgentOption {
	return func(a *Agent) error {
		if role != Controlling && role != Controlled {
			return fmt.Errorf("%w: %d", ErrUnknownRole, role)
		}

		a.role = role

		return nil
	}
}

// WithPairOrder sets the direction checklists are sorted in. The default,
// PairOrderDescending, puts the highest priority pair first.
func WithPairOrder(order PairOrder) AgentOption {
	return func(a *Agent) error {
		if order != PairOrderDescending && order != PairOrderAscending {
			return fmt.Errorf("%w: %s", ErrUnknownPairOrder, order)
		}

		a.pairOrder = order

		return nil
	}
}

// WithMaxChecklistPairs sets the number of pairs a checklist is truncated
// to. It must be between 1 and MaxChecklistPairs.
func WithMaxChecklistPairs(limit int) AgentOption {
	return func(a *Agent) error {
		if limit < 1 || limit > MaxChecklistPairs {
			return fmt.Errorf("%w: %d", ErrInvalidMaxPairs, limit)
		}

		a.maxPairs = limit

		return nil
	}
}

// WithSTUNTimeout sets the timeout of a server reflexive address lookup.
func WithSTUNTimeout(timeout time.Duration) AgentOption {
	return func(a *Agent) error {
		a.stunTimeout = timeout

		return nil
	}
}

// WithNet sets the underlying network implementation for the agent.
func WithNet(net transport.Net) AgentOption {
	return func(a *Agent) error {
		a.net = net

		return nil
	}
}

// WithLoggerFactory sets the logger factory for the agent.
//
// Example:
//
//	import "github.com/pion/logging"
//
//	loggerFactory := logging.NewDefaultLoggerFactory()
//	loggerFactory.DefaultLogLevel = logging.LogLevelDebug
//	agent, err := NewAgent(WithLoggerFactory(loggerFactory))
func WithLoggerFactory(loggerFactory logging.LoggerFactory) AgentOption {
	return func(a *Agent) error {
		a.loggerFactory = loggerFactory

		return nil
	}
}
