package net

import (
	"fmt"
	"log"
	"net"
	"strconv"
)

// GetOutgoingIP finds the preferred local IP address to share with players.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet, fall back to the local interfaces.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("[NET] No suitable local IP found, share link may not work.")
	return "127.0.0.1", nil
}

// ShareURL turns a listen address into a link other machines can open.
// Wildcard hosts are replaced by the outgoing IP. resolve may be nil.
func ShareURL(listenAddr string, resolve func() (string, error)) (string, int, error) {
	host, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", 0, fmt.Errorf("parse listen address %q: %w", listenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("parse port %q: %w", portStr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		if resolve == nil {
			resolve = GetOutgoingIP
		}
		if host, err = resolve(); err != nil {
			return "", 0, err
		}
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, strconv.Itoa(port))), port, nil
}
