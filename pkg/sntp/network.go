package sntp

import (
	"context"
	"net"
	"time"
)

// Transport carries one request and its reply. Implementations only need to
// support a single Send followed by a single Receive.
type Transport interface {
	Send(packet []byte) error
	Receive(buffer []byte) (int, error)
	Close() error
}

type Dialer func(ctx context.Context, address string) (Transport, error)

type udpTransport struct {
	conn *net.UDPConn
	stop func() bool
}

// DialUDP connects a UDP socket to address. The socket's deadline follows
// ctx, so cancelling ctx unblocks a pending Receive.
func DialUDP(ctx context.Context, address string) (Transport, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	debug("Bound", conn.LocalAddr(), "to", conn.RemoteAddr())

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Unix(1, 0))
	})

	return &udpTransport{conn: conn, stop: stop}, nil
}

func (t *udpTransport) Send(packet []byte) error {
	_, err := t.conn.Write(packet)
	return err
}

func (t *udpTransport) Receive(buffer []byte) (int, error) {
	return t.conn.Read(buffer)
}

func (t *udpTransport) Close() error {
	t.stop()
	return t.conn.Close()
}
