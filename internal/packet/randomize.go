package packet

import (
	"math/rand"
	"net"
)

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randInRange returns a random value in [min, max] inclusive
func randInRange(r *rand.Rand, min, max int) int {
	if min >= max {
		return min
	}
	return min + r.Intn(max-min+1)
}

// randInRange16 returns a random uint16 value in [min, max] inclusive
func randInRange16(r *rand.Rand, min, max uint16) uint16 {
	return uint16(randInRange(r, int(min), int(max)))
}

// randAlnum returns n characters drawn from [A-Za-z0-9]
func randAlnum(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alnum[r.Intn(len(alnum))]
	}
	return b
}

// randPrivateIPv4 returns prefix followed by random octets in 1..254, e.g. a
// prefix of {10} yields 10.x.y.z.
func randPrivateIPv4(r *rand.Rand, prefix ...byte) net.IP {
	ip := make(net.IP, 4)
	n := copy(ip, prefix)
	for i := n; i < 4; i++ {
		ip[i] = byte(randInRange(r, 1, 254))
	}
	return ip
}

// randLocalMAC returns a unicast, locally administered hardware address.
func randLocalMAC(r *rand.Rand) net.HardwareAddr {
	mac := make(net.HardwareAddr, 6)
	r.Read(mac)
	mac[0] = (mac[0] | 0x02) &^ 0x01
	return mac
}

// realisticTTL mimics Linux/macOS defaults a few hops away.
func realisticTTL(r *rand.Rand) uint8 {
	return uint8(randInRange(r, 48, 64))
}

// realisticWindow picks a window size common in real TCP stacks.
func realisticWindow(r *rand.Rand) uint16 {
	windowSizes := []uint16{
		65535, 65535, // Most common
		32768, 32768,
		29200, // Chrome/Firefox common value
		16384,
	}
	return windowSizes[r.Intn(len(windowSizes))]
}

// realisticMSS: 1460 (Ethernet), 1440 (PPPoE), 1380 (VPN)
func realisticMSS(r *rand.Rand) uint16 {
	mssValues := []uint16{1460, 1460, 1460, 1440, 1380}
	return mssValues[r.Intn(len(mssValues))]
}

func realisticWindowScale(r *rand.Rand) uint8 {
	scales := []uint8{7, 8, 8, 9}
	return scales[r.Intn(len(scales))]
}
