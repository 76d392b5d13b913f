// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import "errors"

var (
	// ErrInvalidComponent indicates a candidate component outside [1, 255].
	// The priority formula subtracts the component from 256, so these values
	// are rejected instead of being allowed to wrap.
	ErrInvalidComponent = errors.New("candidate component must be in the range [1, 255]")

	// ErrUnknownCandidateType indicates an unspecified or unknown candidate type.
	ErrUnknownCandidateType = errors.New("unknown candidate type")

	// ErrProtoType indicates an unsupported transport type was provided.
	ErrProtoType = errors.New("invalid transport protocol type")

	// ErrPort indicates malformed port is provided.
	ErrPort = errors.New("invalid port")

	// ErrAddressParseFailed indicates we were unable to parse a candidate
	// or socket address.
	ErrAddressParseFailed = errors.New("failed to parse address")

	// ErrIPv4Only indicates an address of another family was supplied.
	ErrIPv4Only = errors.New("only IPv4 addresses are supported")

	// ErrSocketBind indicates the local UDP socket could not be bound.
	ErrSocketBind = errors.New("failed to bind local socket")

	// ErrResolution indicates the STUN server address did not resolve to an
	// IPv4 address.
	ErrResolution = errors.New("failed to resolve STUN server address")

	// ErrNoResponse indicates the STUN server produced no usable Binding
	// response before the deadline.
	ErrNoResponse = errors.New("no STUN binding response")

	// ErrInvalidMaxPairs indicates a checklist size limit outside [1, MaxChecklistPairs].
	ErrInvalidMaxPairs = errors.New("invalid checklist pair limit")

	// ErrUnknownPairOrder indicates a pair order the agent can't sort by.
	ErrUnknownPairOrder = errors.New("unknown pair order")

	// ErrUnknownRole indicates an agent role other than controlling or controlled.
	ErrUnknownRole = errors.New("unknown role")
)
