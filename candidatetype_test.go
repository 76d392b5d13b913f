// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidateType_String_KnownCases(t *testing.T) {
	cases := map[CandidateType]string{
		CandidateTypeHost:            "host",
		CandidateTypeServerReflexive: "srflx",
		CandidateTypePeerReflexive:   "prflx",
		CandidateTypeRelay:           "relay",
		CandidateTypeUnspecified:     "Unknown candidate type",
	}

	for ct, want := range cases {
		require.Equal(t, want, ct.String(), "unexpected string for %v", ct)
	}
}

func TestCandidateType_String_Default(t *testing.T) {
	const outOfBounds CandidateType = 255
	require.Equal(t, "Unknown candidate type", outOfBounds.String())
}

func TestCandidateType_Preference(t *testing.T) {
	cases := map[CandidateType]uint16{
		CandidateTypeHost:            126,
		CandidateTypePeerReflexive:   110,
		CandidateTypeServerReflexive: 100,
		CandidateTypeRelay:           0,
		CandidateTypeUnspecified:     0,
	}

	for ct, want := range cases {
		require.Equal(t, want, ct.Preference(), "unexpected preference for %v", ct)
	}
}

func TestCandidateType_Preference_DefaultCase(t *testing.T) {
	const outOfBounds CandidateType = 255
	require.Equal(t, uint16(0), outOfBounds.Preference())
}

func TestProtocol_String(t *testing.T) {
	require.Equal(t, "udp", ProtocolUDP.String())
	require.Equal(t, "tcp", ProtocolTCP.String())
	require.Equal(t, ErrProtoType.Error(), Protocol(0).String())
}
