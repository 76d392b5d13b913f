// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package icepair implements the candidate pairing stage of Interactive
// Connectivity Establishment (ICE), RFC 8445 6.1.2.2 through 6.1.2.6:
// forming candidate pairs, computing pair priorities, and pruning and
// ordering them into a checklist for a connectivity check scheduler.
package icepair

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/pion/logging"
	"github.com/pion/transport/v3"
)

// AgentState is the overall state of an ICE agent.
type AgentState int

const (
	// AgentStateRunning means the agent is still negotiating.
	AgentStateRunning AgentState = iota

	// AgentStateCompleted means the agent has finished negotiating.
	AgentStateCompleted

	// AgentStateFailed means the negotiation failed.
	AgentStateFailed
)

func (s AgentState) String() string {
	switch s {
	case AgentStateRunning:
		return "running"
	case AgentStateCompleted:
		return "completed"
	case AgentStateFailed:
		return "failed"
	}

	return "Unknown agent state"
}

// Agent holds the per-negotiation settings that the pairing stage depends on:
// the role used to evaluate pair priorities, the checklist ordering contract
// handed to the connectivity check scheduler, and the network used to learn
// server reflexive addresses.
//
// An Agent is not safe for concurrent mutation.
type Agent struct {
	role  Role
	state AgentState

	pairOrder PairOrder
	maxPairs  int

	net         transport.Net
	stunTimeout time.Duration

	loggerFactory logging.LoggerFactory
	log           logging.LeveledLogger
}

// NewAgent creates a new Agent. Without options the agent is controlling,
// orders checklists highest priority first and caps them at
// MaxChecklistPairs.
func NewAgent(opts ...AgentOption) (*Agent, error) {
	agent := &Agent{
		role:        Controlling,
		state:       AgentStateRunning,
		pairOrder:   PairOrderDescending,
		maxPairs:    MaxChecklistPairs,
		stunTimeout: DefaultSTUNTimeout,
	}

	for _, opt := range opts {
		if err := opt(agent); err != nil {
			return nil, err
		}
	}

	if agent.loggerFactory == nil {
		agent.loggerFactory = logging.NewDefaultLoggerFactory()
	}
	agent.log = agent.loggerFactory.NewLogger("ice")

	return agent, nil
}

// Role returns the role the agent evaluates pairs with.
func (a *Agent) Role() Role {
	return a.role
}

// SetRole changes the role used for subsequent checklists.
func (a *Agent) SetRole(role Role) {
	if a.role != role {
		a.log.Debugf("Role changed from %s to %s", a.role, role)
	}
	a.role = role
}

// State returns the agent state.
func (a *Agent) State() AgentState {
	return a.state
}

// SetState transitions the agent to state.
func (a *Agent) SetState(state AgentState) {
	if a.state == state {
		return
	}

	a.log.Infof("Setting new agent state: %s", state)
	a.state = state
}

// FormChecklist pairs locals with remotes, prunes the result with the agent's
// role and order, and truncates it to the agent's pair limit.
func (a *Agent) FormChecklist(locals, remotes []Candidate) (*Checklist, error) {
	checklist, err := PairCandidates(locals, remotes)
	if err != nil {
		return nil, err
	}
	formed := checklist.Len()

	checklist = checklist.Prune(a.role, a.pairOrder)
	a.log.Debugf("Checklist %s: formed %d pairs from %d local and %d remote candidates, %d left after pruning",
		checklist.ID(), formed, len(locals), len(remotes), checklist.Len())

	if checklist.Len() > a.maxPairs {
		a.log.Warnf("Checklist %s: dropping %d lowest priority pairs to stay within %d",
			checklist.ID(), checklist.Len()-a.maxPairs, a.maxPairs)
		checklist = checklist.Truncate(a.role, a.maxPairs)
	}

	return checklist, nil
}

// DiscoverReflexiveAddress learns the server reflexive address of localAddr
// from the STUN server at serverAddr, using the agent's network and timeout.
// See the package level DiscoverReflexiveAddress for the error contract.
func (a *Agent) DiscoverReflexiveAddress(ctx context.Context, serverAddr, localAddr string) (netip.AddrPort, error) {
	d, err := newDiscoverer(&DiscoveryConfig{
		Net:           a.net,
		Timeout:       a.stunTimeout,
		LoggerFactory: a.loggerFactory,
	})
	if err != nil {
		return netip.AddrPort{}, err
	}

	return d.discover(ctx, serverAddr, localAddr)
}

// GatherServerReflexive asks the STUN server at serverAddr for the address
// base is seen as and returns the resulting server reflexive candidate. The
// new candidate's base address is base's address; component, protocol and
// local preference are inherited from base.
func (a *Agent) GatherServerReflexive(ctx context.Context, serverAddr string, base Candidate) (Candidate, error) {
	if err := base.Validate(); err != nil {
		return Candidate{}, err
	}

	mapped, err := a.DiscoverReflexiveAddress(ctx, serverAddr, base.TransportAddress().String())
	if err != nil {
		a.log.Warnf("Failed to gather server reflexive candidate for %s from %s: %v", base, serverAddr, err)

		return Candidate{}, err
	}

	localPreference := base.LocalPreference()
	srflx, err := NewCandidate(&CandidateConfig{
		Address:         mapped.Addr().String(),
		BaseAddress:     base.Address().String(),
		Port:            int(mapped.Port()),
		Protocol:        base.Protocol(),
		Type:            CandidateTypeServerReflexive,
		Component:       base.Component(),
		Foundation:      base.Foundation(),
		LocalPreference: &localPreference,
	})
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to create server reflexive candidate: %w", err)
	}

	a.log.Debugf("Gathered server reflexive candidate %s", srflx)

	return srflx, nil
}
