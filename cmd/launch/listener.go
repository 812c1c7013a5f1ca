package launch

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"strings"

	"server-launcher/internal/rpc"
)

type ListenAddr struct {
	Network string
	Address string
}

// ParseListenAddr accepts "host:port" or "unix:/path/to/socket".
func ParseListenAddr(address string) ListenAddr {
	if strings.HasPrefix(address, rpc.UnixPrefix) {
		return ListenAddr{Network: "unix", Address: strings.TrimPrefix(address, rpc.UnixPrefix)}
	}
	return ListenAddr{Network: "tcp", Address: address}
}

/**
 * Create the status server listener
 * @param {ListenAddr} addr - Listener Address
 * @returns {net.Listener} Created listener
 * @description
 * - A stale unix socket file left by a previous run is removed first
 */
func CreateListener(addr ListenAddr) (net.Listener, error) {
	if addr.Network == "unix" {
		if err := os.Remove(addr.Address); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return net.Listen(addr.Network, addr.Address)
}
