package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// IsRegularFile reports whether path currently exists and is a regular file.
// Symlinks are not followed and never count as regular files.
func IsRegularFile(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

// FilterRegularFiles returns the paths that are regular files, preserving order.
func FilterRegularFiles(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsRegularFile(p) {
			out = append(out, p)
		}
	}
	return out
}

// CopyFile copies the bytes and permission bits of src to a new file dst.
// dst must not exist.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	// The umask narrowed the mode given to OpenFile.
	if err = out.Chmod(info.Mode().Perm()); err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}

// SameContent reports whether the two files hold exactly the same bytes.
// No normalisation of line endings or encoding is applied.
func SameContent(a, b string) (bool, error) {
	ab, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	bb, err := os.ReadFile(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}
