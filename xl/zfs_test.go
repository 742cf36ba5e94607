package xl

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipStorage(t *testing.T) {
	bb := bytes.Buffer{}
	zs := NewZipStorage(&bb)
	require.NoError(t, zs.WriteBlob("/xl/workbook.xml", []byte("<workbook/>")))
	require.NoError(t, zs.WriteBlob("[Content_Types].xml", []byte("<Types/>")))
	assert.ErrorIs(t, zs.WriteBlob("xl/workbook.xml", nil), ErrDuplicatePart)
	require.NoError(t, zs.Close())

	zr, err := zip.NewReader(bytes.NewReader(bb.Bytes()), int64(bb.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "xl/workbook.xml", zr.File[0].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)
	assert.Equal(t, 1980, zr.File[0].Modified.Year())
}

func TestPartNames(t *testing.T) {
	ds := NewDirStorage(t.TempDir())
	for _, bad := range []string{"", "/", "/../evil.xml", "/xl/../../evil.xml", "/xl//a.xml", "/xl/./a.xml"} {
		assert.ErrorIs(t, ds.WriteBlob(bad, nil), ErrInvalidPartName, bad)
	}
}

func TestDirStorage(t *testing.T) {
	dir := t.TempDir()
	ds := &DirStorage{Dir: dir}
	require.NoError(t, ds.WriteBlob("/xl/worksheets/sheet1.xml", []byte("<worksheet/>")))
	assert.ErrorIs(t, ds.WriteBlob("/xl/worksheets/sheet1.xml", nil), ErrDuplicatePart)

	data, err := os.ReadFile(filepath.Join(dir, "xl", "worksheets", "sheet1.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<worksheet/>", string(data))
}

func TestIdenticalWorkbooksProduceIdenticalContainers(t *testing.T) {
	build := func() []byte {
		wb := NewWorkbook()
		wb.Properties.Identifier = "id"
		wb.Properties.Created = zipEpoch
		sh, err := wb.AddSheet("")
		require.NoError(t, err)
		require.NoError(t, sh.WriteString(0, 0, "same", nil))
		return writeToBuffer(t, wb)
	}
	assert.Equal(t, build(), build())
}
