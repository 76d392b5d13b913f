// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package icepair

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/pion/icepair/internal/stun"
	"github.com/pion/logging"
	"github.com/pion/transport/v3"
	"github.com/pion/transport/v3/stdnet"
)

// DefaultSTUNTimeout bounds a single Binding exchange when no shorter
// deadline is set.
const DefaultSTUNTimeout = 5 * time.Second

// DiscoveryConfig configures DiscoverReflexiveAddress. The zero value and
// nil are both valid.
type DiscoveryConfig struct {
	// Net is the network used to bind and resolve. Defaults to the host network.
	Net transport.Net

	// Timeout bounds the Binding exchange. Defaults to DefaultSTUNTimeout.
	Timeout time.Duration

	LoggerFactory logging.LoggerFactory
}

type discoverer struct {
	net     transport.Net
	timeout time.Duration
	log     logging.LeveledLogger
}

func newDiscoverer(config *DiscoveryConfig) (*discoverer, error) {
	if config == nil {
		config = &DiscoveryConfig{}
	}

	d := &discoverer{
		net:     config.Net,
		timeout: config.Timeout,
	}

	if d.net == nil {
		n, err := stdnet.NewNet()
		if err != nil {
			return nil, fmt.Errorf("failed to create network: %w", err)
		}
		d.net = n
	}

	if d.timeout <= 0 {
		d.timeout = DefaultSTUNTimeout
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	d.log = loggerFactory.NewLogger("ice")

	return d, nil
}

// DiscoverReflexiveAddress binds a UDP socket on localAddr, sends one STUN
// Binding request to serverAddr and returns the address the server observed
// the request coming from.
//
// localAddr is an IPv4 "ip:port" pair; serverAddr is a "host:port" pair whose
// host may be a name, of which the first IPv4 result is used. Each failure is
// reported with a distinct error: ErrAddressParseFailed, ErrSocketBind,
// ErrResolution or ErrNoResponse. The socket is closed before returning.
//
// The exchange is bounded by the earlier of ctx's deadline and the
// configured timeout, and is abandoned when ctx is canceled.
func DiscoverReflexiveAddress(
	ctx context.Context,
	serverAddr, localAddr string,
	config *DiscoveryConfig,
) (netip.AddrPort, error) {
	d, err := newDiscoverer(config)
	if err != nil {
		return netip.AddrPort{}, err
	}

	return d.discover(ctx, serverAddr, localAddr)
}

func (d *discoverer) discover(ctx context.Context, serverAddr, localAddr string) (netip.AddrPort, error) {
	local, err := netip.ParseAddrPort(localAddr)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: local address %q: %v", ErrAddressParseFailed, localAddr, err) //nolint:errorlint
	}
	if !local.Addr().Unmap().Is4() {
		return netip.AddrPort{}, fmt.Errorf("%w: local address %q: %v", ErrAddressParseFailed, localAddr, ErrIPv4Only)
	}

	conn, err := d.net.ListenUDP("udp4", net.UDPAddrFromAddrPort(
		netip.AddrPortFrom(local.Addr().Unmap(), local.Port())),
	)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("%w: %s: %v", ErrSocketBind, localAddr, err) //nolint:errorlint
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			d.log.Warnf("Failed to close STUN socket %s: %v", localAddr, closeErr)
		}
	}()

	server, err := d.resolve(serverAddr)
	if err != nil {
		return netip.AddrPort{}, err
	}

	deadline := time.Now().Add(d.timeout)
	ctxDeadline, hasCtxDeadline := ctx.Deadline()
	if hasCtxDeadline && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	// Wake the blocked read as soon as ctx is done.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	d.log.Debugf("Sending STUN binding request from %s to %s", conn.LocalAddr(), server)

	mapped, err := stun.GetXORMappedAddr(conn, server, deadline)
	if err != nil {
		ctxErr := ctx.Err()
		if ctxErr == nil && hasCtxDeadline && !time.Now().Before(ctxDeadline) {
			// The socket deadline can fire just before ctx notices its own.
			ctxErr = context.DeadlineExceeded
		}
		if ctxErr != nil {
			return netip.AddrPort{}, fmt.Errorf("%w from %s: %w", ErrNoResponse, server, ctxErr)
		}

		return netip.AddrPort{}, fmt.Errorf("%w from %s: %w", ErrNoResponse, server, err)
	}

	ip, ok := netip.AddrFromSlice(mapped.IP)
	if !ok || mapped.Port < 0 || mapped.Port > 65535 {
		return netip.AddrPort{}, fmt.Errorf("%w from %s: invalid mapped address %s", ErrNoResponse, server, mapped)
	}
	reflexive := netip.AddrPortFrom(ip.Unmap(), uint16(mapped.Port)) // #nosec G115 -- range checked above

	d.log.Debugf("STUN server %s reports %s as %s", server, conn.LocalAddr(), reflexive)

	return reflexive, nil
}

func (d *discoverer) resolve(serverAddr string) (*net.UDPAddr, error) {
	if _, _, err := net.SplitHostPort(serverAddr); err != nil {
		return nil, fmt.Errorf("%w: server address %q: %v", ErrAddressParseFailed, serverAddr, err) //nolint:errorlint
	}

	server, err := d.net.ResolveUDPAddr("udp4", serverAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResolution, serverAddr, err) //nolint:errorlint
	}
	if server.IP.To4() == nil {
		return nil, fmt.Errorf("%w: %s resolved to %s", ErrResolution, serverAddr, server.IP)
	}

	return server, nil
}
