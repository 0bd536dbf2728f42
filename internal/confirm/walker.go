package confirm

import (
	"io/fs"
	"log/slog"
	"path/filepath"
)

// walkTree enumerates the regular files under root, returning their paths
// relative to root in slash form, in no guaranteed order.
//
// Non-regular entries (directories, symlinks, devices, sockets) are skipped;
// symlinks are never followed as directories, so cycles cannot occur.
// An inaccessible entry produces one WalkError and the walk continues with
// its siblings — traversal failures degrade the result, they never abort it.
func walkTree(root string) (files []string, walkErrs []*WalkError) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			we := &WalkError{Root: root, Path: filepath.ToSlash(rel), Err: err}
			slog.Warn("walk error", "root", root, "path", we.Path, "error", err)
			walkErrs = append(walkErrs, we)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			// Cannot happen for paths produced by WalkDir under root.
			walkErrs = append(walkErrs, &WalkError{Root: root, Path: path, Err: relErr})
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		// The callback never returns an error, but keep the contract honest.
		walkErrs = append(walkErrs, &WalkError{Root: root, Err: err})
	}
	return files, walkErrs
}
