package scan

import (
	"context"
	"net"
	"strings"
	"time"
)

const (
	nbnsPort            = "137"
	nbnsHeaderSize      = 12
	nbnsQuestionSize    = 38
	nbnsMinResponseSize = 57
	nbnsNameEntrySize   = 18
	nbnsNameFieldSize   = 15
	nbnsAnswerHeader    = 10
)

// nbnsNodeStatusQuery is a NBNS node-status request for the "*" wildcard
// name. The encoded name is fixed by RFC 1002, so the packet is a constant.
var nbnsNodeStatusQuery = []byte{
	0x82, 0x28, // transaction ID
	0x00, 0x00, // flags: standard query
	0x00, 0x01, // questions
	0x00, 0x00, // answer RRs
	0x00, 0x00, // authority RRs
	0x00, 0x00, // additional RRs
	// encoded "*" wildcard
	0x20, 0x43, 0x4b, 0x41, 0x41, 0x41, 0x41, 0x41,
	0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41,
	0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41,
	0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41, 0x41,
	0x41, 0x00,
	0x00, 0x21, // type: NBSTAT
	0x00, 0x01, // class: IN
}

// lookupNetBIOSName queries the host's NetBIOS name service (UDP/137) with a
// node-status request and returns the first active unique name, or "".
func lookupNetBIOSName(ctx context.Context, host string) string {
	conn, err := net.DialTimeout("udp", net.JoinHostPort(host, nbnsPort), time.Second)
	if err != nil {
		return ""
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(2 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(nbnsNodeStatusQuery); err != nil {
		return ""
	}

	response := make([]byte, 4096)
	n, err := conn.Read(response)
	if err != nil {
		return ""
	}
	return parseNodeStatusResponse(response[:n])
}

// parseNodeStatusResponse walks the name entries of a node-status answer.
// Each entry is 15 name bytes, a one-byte suffix and two flag bytes; active
// unique workstation/server names (suffix 0x00, 0x03, 0x20) qualify.
func parseNodeStatusResponse(data []byte) string {
	if len(data) < nbnsMinResponseSize {
		return ""
	}
	// Must be a response, not an echoed query.
	if data[2]&0x80 == 0 {
		return ""
	}

	offset := nbnsHeaderSize + nbnsQuestionSize + nbnsAnswerHeader
	if len(data) < offset+3 {
		return ""
	}
	offset += 2 // data length
	numNames := int(data[offset])
	offset++

	for i := 0; i < numNames && offset+nbnsNameEntrySize <= len(data); i++ {
		name := strings.TrimSpace(string(data[offset : offset+nbnsNameFieldSize]))
		suffix := data[offset+nbnsNameFieldSize]
		flags := uint16(data[offset+nbnsNameFieldSize+1])<<8 | uint16(data[offset+nbnsNameFieldSize+2])
		offset += nbnsNameEntrySize

		if name == "" || flags&0x8000 == 0 {
			continue
		}
		switch suffix {
		case 0x00, 0x03, 0x20:
			return name
		}
	}
	return ""
}
