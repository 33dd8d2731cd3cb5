package conf

import (
	"fmt"
)

type TCPF struct {
	FIN, SYN, RST, PSH, ACK, URG, ECE, CWR, NS bool
}

func (f TCPF) String() string {
	var s []byte
	for _, b := range []struct {
		set bool
		ch  byte
	}{
		{f.FIN, 'F'}, {f.SYN, 'S'}, {f.RST, 'R'}, {f.PSH, 'P'}, {f.ACK, 'A'},
		{f.URG, 'U'}, {f.ECE, 'E'}, {f.CWR, 'C'}, {f.NS, 'N'},
	} {
		if b.set {
			s = append(s, b.ch)
		}
	}
	return string(s)
}

func strTCPF(fStr string) (TCPF, error) {
	var f TCPF
	if fStr == "" {
		return f, fmt.Errorf("empty TCP flag combination")
	}
	for _, ch := range fStr {
		switch ch {
		case 'F':
			f.FIN = true
		case 'S':
			f.SYN = true
		case 'R':
			f.RST = true
		case 'P':
			f.PSH = true
		case 'A':
			f.ACK = true
		case 'U':
			f.URG = true
		case 'E':
			f.ECE = true
		case 'C':
			f.CWR = true
		case 'N':
			f.NS = true
		default:
			return f, fmt.Errorf("invalid TCP flag '%c' in combination", ch)
		}
	}
	return f, nil
}
