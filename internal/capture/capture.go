// Package capture extracts the TCP payloads exchanged with a game server from
// pcap and pcapng capture files.
package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Direction of a segment relative to the game server.
type Direction int

const (
	Unknown Direction = iota
	ToServer
	ToClient
)

func (d Direction) String() string {
	switch d {
	case ToServer:
		return "client"
	case ToClient:
		return "server"
	}
	return "unknown"
}

// Segment is the payload of one TCP packet.
type Segment struct {
	Timestamp   time.Time
	Source      string
	Destination string
	Direction   Direction
	Payload     []byte
}

const pcapngMagic = 0x0A0D0D0A

// ReadFile opens the capture at path and returns every non-empty TCP payload
// in it.
func ReadFile(path string, serverPort uint16) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening capture: %w", err)
	}
	defer f.Close()

	segments, err := Read(f, serverPort)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return segments, nil
}

// Read parses a pcap or pcapng stream. Segments sent to serverPort are marked
// ToServer and segments sent from it ToClient.
func Read(r io.Reader, serverPort uint16) ([]Segment, error) {
	source, err := newPacketSource(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}

	var segments []Segment
	for {
		packet, err := source.NextPacket()
		if errors.Is(err, io.EOF) {
			return segments, nil
		}
		if err != nil {
			return segments, fmt.Errorf("error reading packet %d: %w", len(segments)+1, err)
		}

		if segment, ok := toSegment(packet, serverPort); ok {
			segments = append(segments, segment)
		}
	}
}

func newPacketSource(r *bufio.Reader) (*gopacket.PacketSource, error) {
	magic, err := r.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("error reading capture header: %w", err)
	}

	if binary.LittleEndian.Uint32(magic) == pcapngMagic {
		ng, err := pcapgo.NewNgReader(r, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("error reading pcapng header: %w", err)
		}
		return gopacket.NewPacketSource(ng, ng.LinkType()), nil
	}

	pcap, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("error reading pcap header: %w", err)
	}
	return gopacket.NewPacketSource(pcap, pcap.LinkType()), nil
}

func toSegment(packet gopacket.Packet, serverPort uint16) (Segment, bool) {
	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return Segment{}, false
	}
	tcp := tcpLayer.(*layers.TCP)
	if len(tcp.Payload) == 0 {
		return Segment{}, false
	}

	segment := Segment{
		Timestamp: packet.Metadata().Timestamp,
		Payload:   append([]byte(nil), tcp.Payload...),
	}
	srcHost, dstHost := "", ""
	if network := packet.NetworkLayer(); network != nil {
		flow := network.NetworkFlow()
		srcHost, dstHost = flow.Src().String(), flow.Dst().String()
	}
	segment.Source = fmt.Sprintf("%s:%d", srcHost, uint16(tcp.SrcPort))
	segment.Destination = fmt.Sprintf("%s:%d", dstHost, uint16(tcp.DstPort))

	switch serverPort {
	case uint16(tcp.DstPort):
		segment.Direction = ToServer
	case uint16(tcp.SrcPort):
		segment.Direction = ToClient
	}
	return segment, true
}
