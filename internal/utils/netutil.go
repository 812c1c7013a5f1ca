package utils

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

var ErrPortInUse = errors.New("port already in use")

const portDialTimeout = time.Second

/**
 *	检查本机端口是否空闲
 *	@param {int} port - TCP端口
 *	@returns {error} 有程序在该端口接受连接时返回ErrPortInUse，端口超出范围也返回错误
 *	@description
 *	- 通过连接127.0.0.1判断，连接失败视为空闲
 */
func CheckPortFree(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, portDialTimeout)
	if err != nil {
		return nil
	}
	defer conn.Close()
	return fmt.Errorf("%w: %s accepted a connection from %s", ErrPortInUse, addr, conn.LocalAddr())
}
