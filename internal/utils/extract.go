package utils

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownArchive = errors.New("unknown archive format")
	ErrUnsafePath     = errors.New("archive entry escapes target directory")
)

var (
	zipMagic  = []byte("PK\x03\x04")
	gzipMagic = []byte{0x1f, 0x8b}
)

/**
 *	把压缩包完整解压到目标目录
 *	@param {string} archivePath - 压缩包路径
 *	@param {string} dstDir - 目标目录，不存在时创建
 *	@description
 *	- 根据文件头识别zip和tar.gz格式，与扩展名无关
 *	- 已存在的文件会被覆盖
 *	- 解压失败不回滚，目标目录中可能残留部分文件
 */
func ExtractArchive(archivePath string, dstDir string) error {
	head := make([]byte, 4)
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	n, _ := io.ReadFull(f, head)
	f.Close()
	head = head[:n]

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("MkdirAll('%s') error: %w", dstDir, err)
	}
	switch {
	case bytes.HasPrefix(head, zipMagic):
		return extractZip(archivePath, dstDir)
	case bytes.HasPrefix(head, gzipMagic):
		return extractTarGz(archivePath, dstDir)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownArchive, archivePath)
	}
}

func extractZip(archivePath string, dstDir string) error {
	r, err := zip.OpenReader(archivePath)
	if errors.Is(err, zip.ErrInsecurePath) {
		if r != nil {
			r.Close()
		}
		return fmt.Errorf("%w: %v", ErrUnsafePath, err)
	}
	if err != nil {
		return fmt.Errorf("open zip '%s': %w", archivePath, err)
	}
	defer r.Close()

	for _, zf := range r.File {
		target, err := safeJoin(dstDir, zf.Name)
		if err != nil {
			return err
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("open entry '%s': %w", zf.Name, err)
		}
		err = writeFile(target, rc, zf.Mode())
		rc.Close()
		if err != nil {
			return fmt.Errorf("extract entry '%s': %w", zf.Name, err)
		}
	}
	return nil
}

func extractTarGz(archivePath string, dstDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip '%s': %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar '%s': %w", archivePath, err)
		}
		target, err := safeJoin(dstDir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("extract entry '%s': %w", hdr.Name, err)
			}
		default:
			// 链接等特殊文件不解压
		}
	}
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func safeJoin(dstDir string, name string) (string, error) {
	target := filepath.Join(dstDir, name)
	rel, err := filepath.Rel(dstDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: '%s'", ErrUnsafePath, name)
	}
	return target, nil
}
