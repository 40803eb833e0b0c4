package source

import "strconv"

// FileID indexes a FileSet in the order files were added.
type FileID uint32

// FileFlags records how the content was obtained and normalised.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // из памяти: тест, stdin, seed фаззера
	FileHadBOM                               // UTF-8 BOM снят при загрузке
	FileNormalizedCRLF                       // \r\n приведены к \n
)

func (f FileFlags) Has(flag FileFlags) bool { return f&flag != 0 }

// File is one loaded .mahdl source. Content is already normalised, so every
// Span offset and LineIdx entry refers to it rather than to the bytes on disk.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Text returns the source text covered by sp, clamped to the file.
func (f *File) Text(sp Span) string {
	n := uint32(len(f.Content)) //nolint:gosec // FileSet.Add panics on files over 4 GiB
	start, end := min(sp.Start, n), min(sp.End, n)
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCol is a 1-based position as shown to the user.
type LineCol struct {
	Line uint32
	Col  uint32
}

// String formats the position as line:col.
func (lc LineCol) String() string {
	return strconv.FormatUint(uint64(lc.Line), 10) + ":" + strconv.FormatUint(uint64(lc.Col), 10)
}
