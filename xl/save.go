package xl

import (
	"io"
	"os"
	"path/filepath"
)

// Write assembles the workbook into s. The workbook is frozen afterwards.
func (wb *Workbook) Write(s Storage, opts Options) error {
	if wb.closed {
		return ErrWorkbookClosed
	}
	w := NewWriter(s)
	w.Options = opts
	return w.Write(wb)
}

// WriteZip writes the workbook as an xlsx container to out.
func (wb *Workbook) WriteZip(out io.Writer, opts Options) error {
	zs := NewZipStorage(out)
	if err := wb.Write(zs, opts); err != nil {
		zs.Close()
		return err
	}
	return zs.Close()
}

// SaveAs writes the workbook to path. The container is produced in a
// temporary file next to path and renamed on success, so a failure never
// leaves a truncated file behind.
func (wb *Workbook) SaveAs(path string, opts Options) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".xlsxw-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = wb.WriteZip(f, opts); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
