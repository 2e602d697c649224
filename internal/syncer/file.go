package syncer

import "sort"

// ModTimeTolerance is the window, in seconds, within which two
// modification times are treated as equal. It absorbs timestamp
// truncation and timezone skew between transports (FAT stores 2-second
// resolution, adb/busybox touch only minute+second granularity).
const ModTimeTolerance = 60

// Unix st_mode type bits. Remote listings report the raw st_mode word,
// local records are composed from os.FileInfo with the same layout so
// both sides compare uniformly.
const (
	ModeTypeMask uint32 = 0o170000
	ModeDir      uint32 = 0o040000
	ModeRegular  uint32 = 0o100000
)

// File is the unit entity exchanged between the listing builder, the
// transports and the reconciler. RelPath is posix-style and always
// relative to a declared root (local music root or remote music root).
type File struct {
	RelPath string
	ModTime int64  // unix seconds
	Mode    uint32 // st_mode layout, see ModeDir/ModeRegular
	SrcPath string // absolute local path, local records only
}

func (f File) IsDir() bool {
	return f.Mode&ModeTypeMask == ModeDir
}

// Compare orders primarily by RelPath. On equal paths modification
// times within ModTimeTolerance compare equal; otherwise the older
// record sorts first. One rule serves both sorting and equality, so
// "newer" always means the delta is at least the full tolerance.
// Within a single listing RelPath is unique, so the time component
// only ever fires when comparing records across listings.
func (f File) Compare(o File) int {
	if f.RelPath != o.RelPath {
		if f.RelPath < o.RelPath {
			return -1
		}
		return 1
	}
	d := f.ModTime - o.ModTime
	switch {
	case d <= -ModTimeTolerance:
		return -1
	case d >= ModTimeTolerance:
		return 1
	}
	return 0
}

func (f File) Equal(o File) bool {
	return f.Compare(o) == 0
}

// SortFiles sorts a listing ascending by Compare.
func SortFiles(files []File) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Compare(files[j]) < 0
	})
}
