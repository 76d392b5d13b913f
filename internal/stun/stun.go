// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package stun contains the STUN Binding exchange used to learn a
// server reflexive address.
package stun

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pion/stun/v3"
)

var (
	// ErrNoXORMappedAddress indicates a success response without XOR-MAPPED-ADDRESS.
	ErrNoXORMappedAddress = errors.New("failed to get XOR-MAPPED-ADDRESS response")

	// ErrBindingErrorResponse indicates the server answered with a Binding error response.
	ErrBindingErrorResponse = errors.New("binding error response")
)

const maxMessageSize = 1280

// GetXORMappedAddr sends a Binding request to serverAddr using conn and
// returns the XOR-MAPPED-ADDRESS of the matching response.
//
// Datagrams that are not STUN, or that belong to another transaction, are
// skipped. A zero deadline waits forever; the read deadline is reset before
// returning.
func GetXORMappedAddr(conn net.PacketConn, serverAddr net.Addr, deadline time.Time) (*stun.XORMappedAddress, error) {
	if !deadline.IsZero() {
		if err := conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}

		// Reset timeout after completion
		defer conn.SetReadDeadline(time.Time{}) //nolint:errcheck
	}

	req, err := stun.Build(stun.BindingRequest, stun.TransactionID, stun.Fingerprint)
	if err != nil {
		return nil, err
	}

	if _, err = conn.WriteTo(req.Raw, serverAddr); err != nil {
		return nil, err
	}

	buf := make([]byte, maxMessageSize)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return nil, err
		}

		if !stun.IsMessage(buf[:n]) {
			continue
		}

		res := &stun.Message{Raw: append([]byte{}, buf[:n]...)}
		if err = res.Decode(); err != nil {
			continue
		}
		if res.TransactionID != req.TransactionID {
			continue
		}

		return parseBindingResponse(res)
	}
}

func parseBindingResponse(res *stun.Message) (*stun.XORMappedAddress, error) {
	if res.Type.Class == stun.ClassErrorResponse {
		var code stun.ErrorCodeAttribute
		if err := code.GetFrom(res); err != nil {
			return nil, ErrBindingErrorResponse
		}

		return nil, fmt.Errorf("%w: %s", ErrBindingErrorResponse, code)
	}

	var addr stun.XORMappedAddress
	if err := addr.GetFrom(res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoXORMappedAddress, err) //nolint:errorlint
	}

	return &addr, nil
}
