package utils

const (
	MaxBufferSize = 64 * 1024 // 64KB
	MaxFileSize   = 50 * 1024 * 1024
)
