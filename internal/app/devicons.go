package app

import (
	"os"
	"path"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// iconFileInfo adapts a bare file name to os.FileInfo for the devicons
// lookup, which only inspects the name and mode.
type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string { return i.name }

func (i iconFileInfo) Size() int64 { return 0 }

func (i iconFileInfo) Mode() os.FileMode { return 0 }

func (i iconFileInfo) ModTime() time.Time { return time.Time{} }

func (i iconFileInfo) IsDir() bool { return false }

func (i iconFileInfo) Sys() any { return nil }

// iconForPath returns the devicon for a repository-relative path.
func iconForPath(p string) string {
	name := path.Base(p)
	if name == "" || name == "." {
		return " "
	}
	style := devicons.IconForInfo(iconFileInfo{name: name})
	return style.Icon
}
