// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

// Protocol is the transport protocol of a candidate.
//
// TCP candidates are tagged but otherwise treated exactly like UDP ones:
// the protocol has no effect on priority or pairing.
type Protocol byte

const (
	// ProtocolUDP indicates UDP.
	ProtocolUDP Protocol = iota + 1

	// ProtocolTCP indicates TCP.
	ProtocolTCP
)

const (
	udp = "udp"
	tcp = "tcp"
)

func (p Protocol) String() string {
	switch p {
	case ProtocolUDP:
		return udp
	case ProtocolTCP:
		return tcp
	default:
		return ErrProtoType.Error()
	}
}

func (p Protocol) valid() bool {
	return p == ProtocolUDP || p == ProtocolTCP
}
