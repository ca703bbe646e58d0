package raw

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/hadi77ir/go-logging"
	"golang.org/x/net/ipv4"

	"github.com/hadi77ir/go-mcast/log"
	"github.com/hadi77ir/go-mcast/types"
)

var setBufferWarningOnce sync.Once

// SenderConfig describes a socket used to transmit multicast datagrams.
type SenderConfig struct {
	// TTL is the multicast hop count. Zero keeps datagrams on the local host.
	TTL int

	// Interface selects the outgoing interface. Nil uses the system default.
	Interface *net.Interface

	// WriteBufferSize, if positive, is the kernel send buffer size to request.
	WriteBufferSize int
}

// ReceiverConfig describes a socket that joins a multicast group.
type ReceiverConfig struct {
	Group net.IP
	Port  int

	// Interfaces to join the group on. Empty joins on the system default.
	Interfaces []net.Interface

	// ReadBufferSize, if positive, is the kernel receive buffer size to request.
	ReadBufferSize int
}

func listenUDP4(ctx context.Context, port int) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: reuseControl}
	pconn, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	conn, ok := pconn.(*net.UDPConn)
	if !ok {
		_ = pconn.Close()
		return nil, fmt.Errorf("unexpected packet conn type %T", pconn)
	}
	return conn, nil
}

// OpenSender opens an unbound-port UDP socket with address reuse enabled and
// the multicast hop count set to cfg.TTL. Multicast loopback stays enabled so
// listeners on the same host receive the datagrams.
func OpenSender(ctx context.Context, cfg SenderConfig) (*BasicConn, error) {
	conn, err := listenUDP4(ctx, 0)
	if err != nil {
		return nil, err
	}
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(cfg.TTL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set multicast hops to %d: %w", cfg.TTL, err)
	}
	if err := pc.SetMulticastLoopback(true); err != nil {
		log.Log(logging.WarnLevel, fmt.Sprintf("failed to enable multicast loopback: %s", err))
	}
	if cfg.Interface != nil {
		if err := pc.SetMulticastInterface(cfg.Interface); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set multicast interface %s: %w", cfg.Interface.Name, err)
		}
	}
	if cfg.WriteBufferSize > 0 {
		warnBuffer(SetSendBuffer(conn, cfg.WriteBufferSize))
	}
	return NewBasicConn(conn), nil
}

// OpenReceiver binds cfg.Port on all interfaces with address reuse enabled and
// joins cfg.Group. It fails with types.ErrNoGroup when no join succeeds.
func OpenReceiver(ctx context.Context, cfg ReceiverConfig) (*BasicConn, error) {
	if cfg.Group == nil {
		return nil, types.ErrUnexpectedNil
	}
	conn, err := listenUDP4(ctx, cfg.Port)
	if err != nil {
		return nil, err
	}
	pc := ipv4.NewPacketConn(conn)
	group := &net.UDPAddr{IP: cfg.Group}

	var joined int
	var lastErr error
	if len(cfg.Interfaces) == 0 {
		if lastErr = pc.JoinGroup(nil, group); lastErr == nil {
			joined++
		}
	}
	for i := range cfg.Interfaces {
		ifi := &cfg.Interfaces[i]
		if err := pc.JoinGroup(ifi, group); err != nil {
			log.Log(logging.DebugLevel, fmt.Sprintf("failed to join %s on %s: %s", group.IP, ifi.Name, err))
			lastErr = err
			continue
		}
		joined++
	}
	if joined == 0 {
		_ = conn.Close()
		return nil, fmt.Errorf("%w %s: %v", types.ErrNoGroup, group.IP, lastErr)
	}

	if cfg.ReadBufferSize > 0 {
		warnBuffer(SetReceiveBuffer(conn, cfg.ReadBufferSize))
	}
	return NewBasicConn(conn), nil
}

func warnBuffer(err error) {
	if err == nil || strings.Contains(err.Error(), "use of closed network connection") {
		return
	}
	setBufferWarningOnce.Do(func() {
		log.Log(logging.WarnLevel, err.Error())
	})
}
