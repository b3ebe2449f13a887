package archive

import (
	"fmt"
	"os"

	fixzip "github.com/hidez8891/zip"
)

// RewriteFunc returns replacement content for archive entry. When ok is
// false entry is copied to the new archive untouched. Returned error stops
// repacking.
type RewriteFunc func(file *fixzip.File) (data []byte, ok bool, err error)

// Repack writes copy of archive "from" to "to" passing every file entry
// through rewrite. Untouched entries are copied without recompression. Data
// descriptors are dropped so result could be read by simple readers. Returns
// number of rewritten entries.
func Repack(from, to string, rewrite RewriteFunc) (count int, err error) {
	r, err := fixzip.OpenReader(from)
	if err != nil {
		return 0, fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	for _, file := range r.File {
		if !isSafePath(file.Name) {
			return 0, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", file.Name)
		}
	}

	out, err := os.Create(to)
	if err != nil {
		return 0, fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer func() {
		if e := out.Close(); e != nil && err == nil {
			err = fmt.Errorf("unable to close target file (%s): %w", to, e)
		}
		if err != nil {
			os.Remove(to)
		}
	}()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		data, ok, err := rewrite(file)
		if err != nil {
			return count, err
		}
		if !ok {
			file.Flags &= ^fixzip.FlagDataDescriptor
			if err := w.CopyFile(file); err != nil {
				return count, fmt.Errorf("unable to copy entry (%s): %w", file.Name, err)
			}
			continue
		}

		hdr := file.FileHeader
		hdr.Flags &= ^fixzip.FlagDataDescriptor
		hdr.Method = fixzip.Deflate
		hdr.Extra = nil
		fw, err := w.CreateHeader(&hdr)
		if err != nil {
			return count, fmt.Errorf("unable to create entry (%s): %w", file.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return count, fmt.Errorf("unable to write entry (%s): %w", file.Name, err)
		}
		count++
	}
	if err := w.Close(); err != nil {
		return count, fmt.Errorf("unable to write target file (%s): %w", to, err)
	}
	return count, nil
}
