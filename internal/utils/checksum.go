package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrChecksumMismatch indicates the computed hash differs from the configured one.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnsupportedChecksum indicates a checksum that is not a sha256 hex digest.
	ErrUnsupportedChecksum = errors.New("unsupported checksum")
)

// ChecksumError wraps ErrChecksumMismatch with both hash values.
type ChecksumError struct {
	File     string
	Expected string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s (expected %s, got %s)", e.File, e.Expected, e.Got)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

/**
 *	计算文件的SHA256
 */
func CalcFileSHA256(fname string) (string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

/**
 *	规范化配置中的校验值，接受"sha256:<hex>"或直接的hex串
 */
func NormalizeChecksum(checksum string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(checksum))
	if algo, digest, found := strings.Cut(value, ":"); found {
		if algo != "sha256" {
			return "", fmt.Errorf("%w: algorithm '%s'", ErrUnsupportedChecksum, algo)
		}
		value = digest
	}
	if len(value) != sha256.Size*2 {
		return "", fmt.Errorf("%w: expected %d hex characters", ErrUnsupportedChecksum, sha256.Size*2)
	}
	if _, err := hex.DecodeString(value); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedChecksum, err)
	}
	return value, nil
}

/**
 *	校验下载文件的SHA256
 *	@param {string} fname - 待校验的文件
 *	@param {string} expected - 配置中的校验值
 *	@returns {error} 不一致时返回*ChecksumError
 */
func VerifyFileSHA256(fname string, expected string) error {
	want, err := NormalizeChecksum(expected)
	if err != nil {
		return err
	}
	got, err := CalcFileSHA256(fname)
	if err != nil {
		return fmt.Errorf("hash '%s': %w", fname, err)
	}
	if got != want {
		return &ChecksumError{File: fname, Expected: want, Got: got}
	}
	return nil
}
