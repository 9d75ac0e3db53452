// Package version 提供构建版本信息
package version

import (
	"fmt"
	"runtime"
)

// 构建时通过 ldflags 注入
var (
	Version   = "v0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo 获取构建信息
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Rows 以键值行形式输出
func (b *BuildInfo) Rows() [][]string {
	return [][]string{
		{"version", b.Version},
		{"build_time", b.BuildTime},
		{"git_commit", b.GitCommit},
		{"go_version", b.GoVersion},
		{"platform", b.Platform},
	}
}
