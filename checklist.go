// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MaxChecklistPairs is the RFC 8445 6.1.2.5 limit on the number of pairs in
// a checklist.
const MaxChecklistPairs = 100

// ChecklistState represents the state of a checklist
type ChecklistState int

const (
	// ChecklistStateRunning means checks are still expected to run
	ChecklistStateRunning ChecklistState = iota

	// ChecklistStateCompleted means a pair was nominated for every component
	ChecklistStateCompleted

	// ChecklistStateFailed means no usable pair could be found
	ChecklistStateFailed
)

func (s ChecklistState) String() string {
	switch s {
	case ChecklistStateRunning:
		return "running"
	case ChecklistStateCompleted:
		return "completed"
	case ChecklistStateFailed:
		return "failed"
	}

	return "Unknown checklist state"
}

// PairOrder is the direction a checklist's pairs are sorted in.
type PairOrder int

const (
	// PairOrderUnsorted is the order of a freshly formed checklist:
	// locals-major, remotes-minor as supplied.
	PairOrderUnsorted PairOrder = iota

	// PairOrderDescending puts the highest priority pair first. This is the
	// order RFC 8445 processes a checklist in.
	PairOrderDescending

	// PairOrderAscending puts the lowest priority pair first.
	PairOrderAscending
)

func (o PairOrder) String() string {
	switch o {
	case PairOrderUnsorted:
		return "unsorted"
	case PairOrderDescending:
		return "descending"
	case PairOrderAscending:
		return "ascending"
	}

	return "Unknown pair order"
}

// Checklist is an ordered set of candidate pairs to be checked for
// connectivity, together with its overall state.
//
// Pruning and truncation never modify a Checklist; they return a new one
// carrying the same id and state.
type Checklist struct {
	id    string
	pairs []CandidatePair
	state ChecklistState
	order PairOrder
}

// PairCandidates forms every candidate pair between locals and remotes that
// share a component, per RFC 8445 6.1.2.2. Pairs start Frozen and the
// checklist starts Running. Nothing is deduplicated or sorted here; see Prune.
//
// Every candidate is validated first, so zero value candidates are rejected
// instead of producing meaningless priorities.
func PairCandidates(locals, remotes []Candidate) (*Checklist, error) {
	for _, c := range locals {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("local candidate %s: %w", c, err)
		}
	}
	for _, c := range remotes {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("remote candidate %s: %w", c, err)
		}
	}

	pairs := []CandidatePair{}
	for _, local := range locals {
		for _, remote := range remotes {
			if local.Component() != remote.Component() {
				continue
			}
			pairs = append(pairs, newCandidatePair(local, remote))
		}
	}

	return &Checklist{
		id:    uuid.NewString(),
		pairs: pairs,
		state: ChecklistStateRunning,
		order: PairOrderUnsorted,
	}, nil
}

// remoteIdentity lists the remote candidate fields that make two remote
// candidates the same candidate for pruning purposes.
type remoteIdentity struct {
	address         netip.Addr
	baseAddress     netip.Addr
	port            uint16
	protocol        Protocol
	candidateType   CandidateType
	foundation      uint32
	component       uint16
	localPreference uint16
}

// pruneKey identifies the network path a pair would probe.
type pruneKey struct {
	localBase netip.Addr
	remote    remoteIdentity
}

func newPruneKey(p CandidatePair) pruneKey {
	r := p.Remote

	return pruneKey{
		localBase: p.Local.BaseAddress(),
		remote: remoteIdentity{
			address:         r.Address(),
			baseAddress:     r.BaseAddress(),
			port:            r.Port(),
			protocol:        r.Protocol(),
			candidateType:   r.Type(),
			foundation:      r.Foundation(),
			component:       r.Component(),
			localPreference: r.LocalPreference(),
		},
	}
}

// Prune removes redundant pairs and sorts the survivors, per RFC 8445
// 6.1.2.4. Two pairs are redundant when their local candidates share a base
// address and their remote candidates are identical; the pair with the
// higher priority under role survives, the earlier one on a tie.
//
// The survivors are sorted by priority under role in the given order, with
// the relative order of equal priority pairs preserved. Pruning the result
// again with the same role and order returns the same pairs.
func (c *Checklist) Prune(role Role, order PairOrder) *Checklist {
	index := make(map[pruneKey]int, len(c.pairs))
	pairs := make([]CandidatePair, 0, len(c.pairs))

	for _, p := range c.pairs {
		key := newPruneKey(p)
		i, ok := index[key]
		if !ok {
			index[key] = len(pairs)
			pairs = append(pairs, p)

			continue
		}
		if p.Priority(role) > pairs[i].Priority(role) {
			pairs[i] = p
		}
	}

	sortPairs(pairs, role, order)

	return &Checklist{
		id:    c.id,
		pairs: pairs,
		state: c.state,
		order: order,
	}
}

func sortPairs(pairs []CandidatePair, role Role, order PairOrder) {
	switch order {
	case PairOrderDescending:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].Priority(role) > pairs[j].Priority(role)
		})
	case PairOrderAscending:
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].Priority(role) < pairs[j].Priority(role)
		})
	case PairOrderUnsorted:
	}
}

// Truncate returns a checklist holding at most limit pairs. The pairs with
// the lowest priority under role are dropped; survivors keep their relative
// order. When several pairs tie at the cut the earlier ones are kept.
//
// A limit below one keeps nothing.
func (c *Checklist) Truncate(role Role, limit int) *Checklist {
	out := &Checklist{
		id:    c.id,
		state: c.state,
		order: c.order,
	}
	if limit <= 0 {
		out.pairs = []CandidatePair{}

		return out
	}
	if len(c.pairs) <= limit {
		out.pairs = c.Pairs()

		return out
	}

	ranked := make([]int, len(c.pairs))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.pairs[ranked[i]].Priority(role) > c.pairs[ranked[j]].Priority(role)
	})

	keep := make([]bool, len(c.pairs))
	for _, i := range ranked[:limit] {
		keep[i] = true
	}

	out.pairs = make([]CandidatePair, 0, limit)
	for i, p := range c.pairs {
		if keep[i] {
			out.pairs = append(out.pairs, p)
		}
	}

	return out
}

// ID returns the checklist identifier, shared by every checklist derived
// from the same PairCandidates call.
func (c *Checklist) ID() string {
	return c.id
}

// Pairs returns a copy of the checklist pairs in checklist order.
func (c *Checklist) Pairs() []CandidatePair {
	pairs := make([]CandidatePair, len(c.pairs))
	copy(pairs, c.pairs)

	return pairs
}

// Len returns the number of pairs in the checklist.
func (c *Checklist) Len() int {
	return len(c.pairs)
}

// State returns the checklist state.
func (c *Checklist) State() ChecklistState {
	return c.state
}

// SetState updates the checklist state in place.
func (c *Checklist) SetState(state ChecklistState) {
	c.state = state
}

// Order returns the direction the pairs are sorted in.
func (c *Checklist) Order() PairOrder {
	return c.order
}

func (c *Checklist) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "checklist %s (%s, %s, %d pairs)", c.id, c.state, c.order, len(c.pairs))
	for i, p := range c.pairs {
		fmt.Fprintf(&b, "\n  %d: %s", i, p)
	}

	return b.String()
}
