package model

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const filesPrefix = "/files/"

var ErrInvalidFileURL = errors.New("invalid file url")

// ChatFile is a content addressed upload scoped to a workspace.
type ChatFile struct {
	WsID int64
	Ext  string
	Hash string
}

// NewChatFile addresses data by its SHA-1. The extension comes from filename
// and defaults to txt.
func NewChatFile(wsID int64, filename string, data []byte) *ChatFile {
	sum := sha1.Sum(data)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "txt"
	}
	return &ChatFile{WsID: wsID, Ext: ext, Hash: hex.EncodeToString(sum[:])}
}

// Key is the storage key: <ws>/<h[0:3]>/<h[3:6]>/<h[6:]>.<ext>.
func (f *ChatFile) Key() string {
	return fmt.Sprintf("%d/%s/%s/%s.%s", f.WsID, f.Hash[:3], f.Hash[3:6], f.Hash[6:], f.Ext)
}

// URL is the path clients use to download the file.
func (f *ChatFile) URL() string {
	return filesPrefix + f.Key()
}

// ParseChatFile accepts either a URL from ChatFile.URL or a bare key.
func ParseChatFile(s string) (*ChatFile, error) {
	key := strings.TrimPrefix(s, filesPrefix)
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFileURL, s)
	}

	wsID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad workspace in %s", ErrInvalidFileURL, s)
	}

	rest, ext, ok := strings.Cut(parts[3], ".")
	if !ok || ext == "" {
		return nil, fmt.Errorf("%w: missing extension in %s", ErrInvalidFileURL, s)
	}

	hash := parts[1] + parts[2] + rest
	if len(parts[1]) != 3 || len(parts[2]) != 3 || len(hash) != sha1.Size*2 {
		return nil, fmt.Errorf("%w: bad hash in %s", ErrInvalidFileURL, s)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return nil, fmt.Errorf("%w: bad hash in %s", ErrInvalidFileURL, s)
	}

	return &ChatFile{WsID: wsID, Ext: ext, Hash: hash}, nil
}
