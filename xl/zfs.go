package xl

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Storage receives the parts produced by Writer. Part names are absolute
// package paths such as "/xl/workbook.xml"; "[Content_Types].xml" is the
// only name without a leading slash.
type Storage interface {
	WriteBlob(name string, blob []byte) error
}

// zipEpoch stamps every container entry, so identical workbooks produce
// identical containers.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// partSet rejects malformed and repeated part names.
type partSet map[string]struct{}

func (ps partSet) add(name string) (string, error) {
	rel := strings.TrimPrefix(name, "/")
	if rel == "" || path.Clean(rel) != rel || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPartName, name)
	}
	if _, dup := ps[rel]; dup {
		return "", fmt.Errorf("%w: %q", ErrDuplicatePart, name)
	}
	ps[rel] = struct{}{}
	return rel, nil
}

// DirStorage unpacks the package into a directory tree, one file per part.
// Use it to inspect the generated XML.
type DirStorage struct {
	Dir   string
	parts partSet
}

func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir, parts: partSet{}}
}

func (ds *DirStorage) WriteBlob(name string, blob []byte) error {
	if ds.parts == nil {
		ds.parts = partSet{}
	}
	rel, err := ds.parts.add(name)
	if err != nil {
		return err
	}
	fn := filepath.Join(ds.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fn, blob, 0o644)
}

// ZipStorage writes the parts as deflated entries of an xlsx container.
// Close must be called once all parts are written.
type ZipStorage struct {
	z     *zip.Writer
	parts partSet
}

func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out), parts: partSet{}}
}

func (zs *ZipStorage) WriteBlob(name string, blob []byte) error {
	rel, err := zs.parts.add(name)
	if err != nil {
		return err
	}
	f, err := zs.z.CreateHeader(&zip.FileHeader{
		Name:     rel,
		Method:   zip.Deflate,
		Modified: zipEpoch,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

// Close writes the central directory. The underlying writer is not closed.
func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}
