package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

/**
 *	通过HTTP下载文件，不设置超时，取消只能通过ctx
 */
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{}}
}

/**
 *	从服务器获取一个文件
 *	@param {context.Context} ctx - 取消下载的上下文
 *	@param {string} urlStr - 下载地址
 *	@param {string} savePath - 保存路径，父目录不存在时自动创建
 *	@returns {int64} 写入的字节数
 *	@description
 *	- 非200响应视为失败，响应体作为错误信息的一部分
 *	- 失败时已写入的部分文件由调用者清理
 */
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string, savePath string) (int64, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return 0, fmt.Errorf("GetFile('%s') failed: %w", urlStr, err)
	}
	rsp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GetFile('%s') failed: %w", urlStr, err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		rspBody, _ := io.ReadAll(io.LimitReader(rsp.Body, 512))
		return 0, fmt.Errorf("GetFile('%s') code: %d, error: %s",
			urlStr, rsp.StatusCode, string(rspBody))
	}

	// 创建一个文件用于保存
	if err = os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return 0, fmt.Errorf("GetFile('%s'): MkdirAll('%s') error: %w", urlStr, savePath, err)
	}
	out, err := os.Create(savePath)
	if err != nil {
		return 0, fmt.Errorf("GetFile('%s'): create('%s') error: %w", urlStr, savePath, err)
	}
	defer out.Close()

	// 然后将响应流和文件流对接起来
	n, err := io.Copy(out, rsp.Body)
	if err != nil {
		return n, fmt.Errorf("GetFile('%s'): copy error: %w", urlStr, err)
	}
	return n, out.Close()
}
