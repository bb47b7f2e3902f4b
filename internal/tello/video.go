package tello

import (
	"fmt"
	"net"
	"sync"
)

// VideoPort is where the drone sends raw H.264 packets after streamon.
const VideoPort = 11111

// FrameReader receives raw video packets from the drone. It performs no
// decoding; consumers get the UDP payloads as-is.
type FrameReader struct {
	conn    *net.UDPConn
	packets chan []byte

	stopOnce sync.Once
}

// NewFrameReader binds the video port and is ready to Start.
func NewFrameReader() (*FrameReader, error) {
	return newFrameReader(VideoPort)
}

func newFrameReader(port int) (*FrameReader, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("bind video socket: %w", err)
	}
	return &FrameReader{
		conn:    conn,
		packets: make(chan []byte, 64),
	}, nil
}

// Start launches the receive loop.
func (r *FrameReader) Start() {
	go r.receive()
}

// Packets delivers received video payloads. The channel closes when the
// reader stops.
func (r *FrameReader) Packets() <-chan []byte {
	return r.packets
}

// Stop closes the socket and ends the receive loop.
func (r *FrameReader) Stop() {
	r.stopOnce.Do(func() {
		_ = r.conn.Close()
	})
}

func (r *FrameReader) receive() {
	defer close(r.packets)

	buf := make([]byte, 2048)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		pkt := make([]byte, n)
		copy(pkt, buf[:n])
		select {
		case r.packets <- pkt:
		default:
			// Slow consumers lose packets rather than stalling the socket.
		}
	}
}
