// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import (
	"fmt"
	"net/netip"
)

const (
	// DefaultLocalPreference is the local preference of a host with a single
	// usable IP address per address family.
	DefaultLocalPreference uint16 = 65535

	// ComponentRTP indicates that the candidate is used for RTP
	ComponentRTP uint16 = 1
	// ComponentRTCP indicates that the candidate is used for RTCP
	ComponentRTCP uint16 = 2

	minComponent = 1
	maxComponent = 255
)

// CandidateConfig is the config required to create a new Candidate.
type CandidateConfig struct {
	// Address is the IPv4 address other agents reach this candidate on.
	Address string

	// BaseAddress is the address of the local socket the candidate was
	// obtained from. Leave it empty for host candidates, where it equals Address.
	BaseAddress string

	Port      int
	Protocol  Protocol
	Type      CandidateType
	Component uint16

	// Foundation groups candidates sharing base address, protocol and type.
	// It is carried as identity data and not used for priority or pairing.
	Foundation uint32

	// LocalPreference ranks this candidate among candidates of the same type
	// and component. Nil means DefaultLocalPreference, which is only correct
	// on single-homed hosts; multihomed hosts should supply a ranking.
	LocalPreference *uint16
}

// Candidate describes one transport endpoint offered in an ICE session.
//
// Candidate is a comparable value: == compares every field, so it can be
// used directly as a map key. It is immutable once returned by NewCandidate.
type Candidate struct {
	address         netip.Addr
	baseAddress     netip.Addr
	port            uint16
	protocol        Protocol
	candidateType   CandidateType
	foundation      uint32
	component       uint16
	localPreference uint16
}

// NewCandidate creates a new Candidate, validating every field of config.
func NewCandidate(config *CandidateConfig) (Candidate, error) {
	address, err := parseIPv4(config.Address)
	if err != nil {
		return Candidate{}, err
	}

	baseAddress := address
	if config.BaseAddress != "" {
		if baseAddress, err = parseIPv4(config.BaseAddress); err != nil {
			return Candidate{}, err
		}
	}

	if config.Port < 0 || config.Port > 65535 {
		return Candidate{}, fmt.Errorf("%w: %d", ErrPort, config.Port)
	}

	localPreference := DefaultLocalPreference
	if config.LocalPreference != nil {
		localPreference = *config.LocalPreference
	}

	c := Candidate{
		address:         address,
		baseAddress:     baseAddress,
		port:            uint16(config.Port), // #nosec G115 -- range checked above
		protocol:        config.Protocol,
		candidateType:   config.Type,
		foundation:      config.Foundation,
		component:       config.Component,
		localPreference: localPreference,
	}
	if err := c.Validate(); err != nil {
		return Candidate{}, err
	}

	return c, nil
}

func parseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %v", ErrAddressParseFailed, err) //nolint:errorlint
	}

	addr = addr.Unmap()
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %s", ErrIPv4Only, addr)
	}

	return addr, nil
}

// Validate checks the candidate invariants. Candidates built with
// NewCandidate always pass; the zero value does not.
func (c Candidate) Validate() error {
	if c.component < minComponent || c.component > maxComponent {
		return fmt.Errorf("%w: %d", ErrInvalidComponent, c.component)
	}
	if !c.candidateType.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCandidateType, c.candidateType)
	}
	if !c.protocol.valid() {
		return fmt.Errorf("%w: %d", ErrProtoType, c.protocol)
	}
	if !c.address.Is4() || !c.baseAddress.Is4() {
		return ErrIPv4Only
	}

	return nil
}

// Address returns the externally reachable address of the candidate.
func (c Candidate) Address() netip.Addr {
	return c.address
}

// BaseAddress returns the address of the local socket the candidate originates from.
func (c Candidate) BaseAddress() netip.Addr {
	return c.baseAddress
}

// Port returns Candidate Port
func (c Candidate) Port() uint16 {
	return c.port
}

// Protocol returns the candidate transport protocol
func (c Candidate) Protocol() Protocol {
	return c.protocol
}

// Type returns candidate type
func (c Candidate) Type() CandidateType {
	return c.candidateType
}

// Foundation returns the candidate foundation
func (c Candidate) Foundation() uint32 {
	return c.foundation
}

// Component returns candidate component
func (c Candidate) Component() uint16 {
	return c.component
}

// LocalPreference returns the local preference for this candidate
func (c Candidate) LocalPreference() uint16 {
	return c.localPreference
}

// TransportAddress returns the address and port other agents send to.
func (c Candidate) TransportAddress() netip.AddrPort {
	return netip.AddrPortFrom(c.address, c.port)
}

// Priority computes the priority for this ICE Candidate
// See: https://www.rfc-editor.org/rfc/rfc8445#section-5.1.2.1
//
// The result is only meaningful for a candidate that passes Validate.
func (c Candidate) Priority() uint32 {
	return (1<<24)*uint32(c.candidateType.Preference()) +
		(1<<8)*uint32(c.localPreference) +
		(1<<0)*(256-uint32(c.component))
}

// Equal is used to compare two Candidates
func (c Candidate) Equal(other Candidate) bool {
	return c == other
}

// String makes the Candidate printable
func (c Candidate) String() string {
	if c.baseAddress != c.address {
		return fmt.Sprintf("%s %s %s related %s component %d",
			c.protocol, c.candidateType, c.TransportAddress(), c.baseAddress, c.component)
	}

	return fmt.Sprintf("%s %s %s component %d", c.protocol, c.candidateType, c.TransportAddress(), c.component)
}
