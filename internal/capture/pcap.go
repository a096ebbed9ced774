package capture

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	pcapGlobalHeaderLen = 24
	pcapRecordHeaderLen = 16
)

var (
	pcapMagicLE = []byte{0xD4, 0xC3, 0xB2, 0xA1}
	pcapMagicBE = []byte{0xA1, 0xB2, 0xC3, 0xD4}
)

// ErrBadMagic means the stream does not start with a pcap global header.
// A capture tool reporting a permissions failure prints text instead of
// binary data, which lands here; the session must abort rather than guess.
var ErrBadMagic = errors.New("invalid pcap magic")

// streamParser reassembles a pcap byte stream delivered in arbitrary
// chunks: 24-byte global header once, then repeated 16-byte record headers
// each followed by included_length payload bytes. Complete records are
// handed to the platform decoder; decoded packets go to emit, records the
// decoder discards go to drop (optional).
type streamParser struct {
	dec        RecordDecoder
	emit       func(*Packet)
	drop       func()
	buf        []byte
	headerDone bool
}

// Feed appends a chunk and consumes as many complete records as the buffer
// now holds. Returns ErrBadMagic when the global header fails validation;
// any other partial state just waits for more data.
func (p *streamParser) Feed(chunk []byte) error {
	p.buf = append(p.buf, chunk...)

	if !p.headerDone {
		if len(p.buf) < pcapGlobalHeaderLen {
			return nil
		}
		magic := p.buf[0:4]
		if !bytes.Equal(magic, pcapMagicLE) && !bytes.Equal(magic, pcapMagicBE) {
			return ErrBadMagic
		}
		p.buf = p.buf[pcapGlobalHeaderLen:]
		p.headerDone = true
	}

	for len(p.buf) >= pcapRecordHeaderLen {
		// record header: ts_sec(4) ts_usec(4) incl_len(4) orig_len(4)
		inclLen := int(binary.LittleEndian.Uint32(p.buf[8:12]))
		total := pcapRecordHeaderLen + inclLen
		if len(p.buf) < total {
			break
		}

		if pkt := p.dec.Decode(p.buf[pcapRecordHeaderLen:total]); pkt != nil {
			p.emit(pkt)
		} else if p.drop != nil {
			p.drop()
		}
		p.buf = p.buf[total:]
	}
	return nil
}
