package web

import "net"

// LanIP returns a best-effort LAN address for this host. The UDP dial
// never sends a packet; it only makes the kernel pick a source address.
func LanIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
