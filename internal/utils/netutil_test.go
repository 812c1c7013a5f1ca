package utils

import (
	"errors"
	"net"
	"testing"
)

func TestCheckPortFree(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port

	if err := CheckPortFree(port); !errors.Is(err, ErrPortInUse) {
		t.Errorf("port %d is in use, got %v", port, err)
	}
	l.Close()
	if err := CheckPortFree(port); err != nil {
		t.Errorf("port %d should be free after close: %v", port, err)
	}
}

func TestCheckPortFreeRange(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		err := CheckPortFree(port)
		if err == nil || errors.Is(err, ErrPortInUse) {
			t.Errorf("CheckPortFree(%d) = %v, want range error", port, err)
		}
	}
}
