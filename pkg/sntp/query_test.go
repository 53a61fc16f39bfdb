package sntp

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
)

// fakeTransport records what was sent and hands back a canned reply.
type fakeTransport struct {
	sent       []byte
	reply      []byte
	sendErr    error
	receiveErr error
	block      context.Context
	closed     bool
}

func (f *fakeTransport) Send(packet []byte) error {
	f.sent = append([]byte(nil), packet...)
	return f.sendErr
}

func (f *fakeTransport) Receive(buffer []byte) (int, error) {
	if f.block != nil {
		<-f.block.Done()
		return 0, f.block.Err()
	}
	if f.receiveErr != nil {
		return 0, f.receiveErr
	}
	return copy(buffer, f.reply), nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func dialFake(f *fakeTransport) Dialer {
	return func(ctx context.Context, address string) (Transport, error) {
		if f.block != nil {
			f.block = ctx
		}
		return f, nil
	}
}

func serverReply(receive time.Time) []byte {
	return ntp.Encode(ntp.Message{
		Header: ntp.PackHeader(ntp.NoWarning, ntp.VERSION, ntp.SERVER),
		Fields: ntp.Fields{
			Stratum:           1,
			Precision:         -20,
			ReferenceID:       0x4e495354, // NIST
			ReceiveTimestamp:  ntp.TimeToTimestamp(receive),
			TransmitTimestamp: ntp.TimeToTimestamp(receive.Add(time.Millisecond)),
		},
	})
}

func TestQueryEndToEnd(t *testing.T) {
	reply := make([]byte, ntp.PacketSize)
	reply[0] = 0x24
	reply[1] = 1
	// receive timestamp: 3913056000 seconds, i.e. 2024-01-01T00:00:00Z
	copy(reply[32:40], []byte{0xe9, 0x3c, 0x7f, 0x00, 0x12, 0x34, 0x56, 0x78})

	f := &fakeTransport{reply: reply}
	client := NewClient("time.example.org:123", WithDialer(dialFake(f)))

	result, err := client.Query(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(f.sent, ntp.Encode(ntp.NewClientRequest())) {
		t.Errorf("sent % x, want the client request", f.sent)
	}
	if !f.closed {
		t.Error("transport was not closed")
	}
	if got, want := result.Time.Format(TimeFormat), "2024-01-01 00:00:00 UTC"; got != want {
		t.Errorf("time = %q, want %q", got, want)
	}
	// the raw receive field as a little-endian host sees the wire bytes
	raw := binary.LittleEndian.Uint64(reply[32:40])
	if !result.Time.Equal(ntp.ToCalendarTime(raw)) {
		t.Errorf("time = %v, want ToCalendarTime(%#x) = %v", result.Time, raw, ntp.ToCalendarTime(raw))
	}
	if result.Stratum != 1 || result.Reply.Mode() != ntp.SERVER {
		t.Errorf("stratum = %d mode = %v", result.Stratum, result.Reply.Mode())
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name      string
		transport *fakeTransport
		want      error
	}{
		{"send fails", &fakeTransport{sendErr: errors.New("network unreachable")}, ErrTransport},
		{"receive fails", &fakeTransport{receiveErr: errors.New("connection refused")}, ErrTransport},
		{"short reply", &fakeTransport{reply: make([]byte, 47)}, ntp.ErrMalformedMessage},
		{"long reply", &fakeTransport{reply: make([]byte, 68)}, ntp.ErrMalformedMessage},
		{"empty reply", &fakeTransport{reply: []byte{}}, ntp.ErrMalformedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := NewMetrics()
			client := NewClient("time.example.org:123", WithDialer(dialFake(tt.transport)), WithMetrics(metrics))
			result, err := client.Query(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if result != nil {
				t.Errorf("expected no result, got %+v", result)
			}
			if !tt.transport.closed {
				t.Error("transport was not closed")
			}
		})
	}
}

func TestQueryDialError(t *testing.T) {
	dial := func(ctx context.Context, address string) (Transport, error) {
		return nil, errors.New("no route to host")
	}
	_, err := NewClient("time.example.org:123", WithDialer(dial)).Query(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
}

func TestQueryTimeout(t *testing.T) {
	f := &fakeTransport{block: context.Background()}
	client := NewClient("time.example.org:123", WithDialer(dialFake(f)), WithTimeout(20*time.Millisecond))

	_, err := client.Query(context.Background())
	if !errors.Is(err, ErrNoResponse) {
		t.Errorf("err = %v, want ErrNoResponse", err)
	}
}

// startServer answers every request with a server reply, echoing the
// request's transmit timestamp as origin.
func startServer(t *testing.T, now func() time.Time) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		packet := make([]byte, 1024)
		for {
			n, addr, err := conn.ReadFromUDP(packet)
			if err != nil {
				return
			}
			request, err := ntp.Decode(packet[:n])
			if err != nil {
				continue
			}
			received := now()
			reply := ntp.Message{
				Header: ntp.PackHeader(ntp.NoWarning, request.Version(), ntp.SERVER),
				Fields: ntp.Fields{
					Stratum:            2,
					Poll:               request.Poll,
					Precision:          -20,
					RootDelay:          0x0000_0100,
					RootDispersion:     0x0000_0100,
					ReferenceID:        0x7f000001,
					ReferenceTimestamp: ntp.TimeToTimestamp(received.Add(-time.Minute)),
					OriginTimestamp:    request.TransmitTimestamp,
					ReceiveTimestamp:   ntp.TimeToTimestamp(received),
					TransmitTimestamp:  ntp.TimeToTimestamp(now()),
				},
			}
			conn.WriteToUDP(ntp.Encode(reply), addr)
		}
	}()

	return conn.LocalAddr().String()
}

func TestQueryUDP(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	address := startServer(t, func() time.Time { return fixed })

	result, err := Query(context.Background(), address, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Time.Equal(fixed) {
		t.Errorf("time = %v, want %v", result.Time, fixed)
	}
	if result.Server != address {
		t.Errorf("server = %q, want %q", result.Server, address)
	}
}

func TestQueryUDPNoResponse(t *testing.T) {
	// a bound socket that never answers
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	_, err = Query(context.Background(), conn.LocalAddr().String(), 50*time.Millisecond)
	if !errors.Is(err, ErrNoResponse) {
		t.Errorf("err = %v, want ErrNoResponse", err)
	}
}

func TestQueryUDPCancel(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err = Query(ctx, conn.LocalAddr().String(), 0)
	if !errors.Is(err, ErrNoResponse) {
		t.Errorf("err = %v, want ErrNoResponse", err)
	}
}

func TestVerify(t *testing.T) {
	address := startServer(t, time.Now)

	result, err := Query(context.Background(), address, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	v, err := Verify(result, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if v.Skew < -time.Second || v.Skew > 2*time.Second {
		t.Errorf("skew = %v, want within a couple of seconds", v.Skew)
	}
}

func TestVerifyAddress(t *testing.T) {
	tests := []struct {
		name   string
		server string
	}{
		{"no port", "127.0.0.1"},
		{"bad port", "127.0.0.1:ntp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Verify(&QueryResult{Server: tt.server}, 50*time.Millisecond); err == nil {
				t.Errorf("Verify(%q) should fail", tt.server)
			}
		})
	}
}
