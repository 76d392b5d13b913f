// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import "fmt"

// CandidatePairState represent the ICE candidate pair state
type CandidatePairState int

const (
	// CandidatePairStateFrozen means a check for this pair hasn't been
	// performed, and it can't yet be performed until some other check
	// succeeds, allowing this pair to unfreeze and move into the Waiting state
	CandidatePairStateFrozen CandidatePairState = iota

	// CandidatePairStateWaiting means a check has not been performed for
	// this pair
	CandidatePairStateWaiting

	// CandidatePairStateInProgress means a check has been sent for this pair,
	// but the transaction is in progress.
	CandidatePairStateInProgress

	// CandidatePairStateSucceeded means a check for this pair was already
	// done and produced a successful result.
	CandidatePairStateSucceeded

	// CandidatePairStateFailed means a check for this pair was already done
	// and failed, either never producing any response or producing an
	// unrecoverable failure response.
	CandidatePairStateFailed
)

func (c CandidatePairState) String() string {
	switch c {
	case CandidatePairStateFrozen:
		return "frozen"
	case CandidatePairStateWaiting:
		return "waiting"
	case CandidatePairStateInProgress:
		return "in-progress"
	case CandidatePairStateSucceeded:
		return "succeeded"
	case CandidatePairStateFailed:
		return "failed"
	}

	return "Unknown candidate pair state"
}

// CandidatePair is a combination of a local and remote candidate.
// Both candidates always share the same component.
type CandidatePair struct {
	Local  Candidate
	Remote Candidate
	State  CandidatePairState
}

func newCandidatePair(local, remote Candidate) CandidatePair {
	return CandidatePair{
		Local:  local,
		Remote: remote,
		State:  CandidatePairStateFrozen,
	}
}

// WithState returns a copy of the pair in the given state.
func (p CandidatePair) WithState(state CandidatePairState) CandidatePair {
	p.State = state

	return p
}

func (p CandidatePair) String() string {
	return fmt.Sprintf(
		"(local, prio %d) %s <-> %s (remote, prio %d), state: %s",
		p.Local.Priority(),
		p.Local,
		p.Remote,
		p.Remote.Priority(),
		p.State,
	)
}

// Priority computes the pair priority as seen by an agent playing role.
//
// RFC 8445 - 6.1.2.3.  Computing Pair Priority and Ordering Pairs
// Let G be the priority for the candidate provided by the controlling
// agent.  Let D be the priority for the candidate provided by the
// controlled agent.
// pair priority = 2^32*MIN(G,D) + 2*MAX(G,D) + (G>D?1:0).
func (p CandidatePair) Priority(role Role) uint64 {
	var g, d uint32 //nolint:varnamelen // clearer to use g and d here
	if role == Controlling {
		g = p.Local.Priority()
		d = p.Remote.Priority()
	} else {
		g = p.Remote.Priority()
		d = p.Local.Priority()
	}

	localMin := func(x, y uint32) uint64 {
		if x < y {
			return uint64(x)
		}

		return uint64(y)
	}
	localMax := func(x, y uint32) uint64 {
		if x > y {
			return uint64(x)
		}

		return uint64(y)
	}
	cmp := func(x, y uint32) uint64 {
		if x > y {
			return uint64(1)
		}

		return uint64(0)
	}

	// Candidate priorities stay below 2^31, so none of this can overflow.
	return (1<<32)*localMin(g, d) + 2*localMax(g, d) + cmp(g, d)
}
