package readfiles

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

/*
MeshFile is the ordered line sequence of an Abaqus input deck. Lines keep any
carriage return so that writing the lines back reproduces the input bytes.
*/
type MeshFile struct {
	Name         string
	Lines        []string
	CRLF         bool // Generated lines get a carriage return
	FinalNewline bool
}

func ParseMesh(name string, data []byte) (mf *MeshFile) {
	text := string(data)
	mf = &MeshFile{
		Name: name,
		CRLF: strings.Contains(text, "\r\n"),
	}
	if len(text) == 0 {
		return
	}
	mf.Lines = strings.Split(text, "\n")
	if last := len(mf.Lines) - 1; mf.Lines[last] == "" {
		mf.Lines = mf.Lines[:last]
		mf.FinalNewline = true
	}
	return
}

func ReadMeshFile(filename string) (mf *MeshFile, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(filename); err != nil {
		return nil, errors.Wrapf(err, "unable to read mesh file %s", filename)
	}
	mf = ParseMesh(filename, data)
	return
}

// NewLine terminates a generated line the way the input file does
func (mf *MeshFile) NewLine(text string) string {
	if mf.CRLF {
		return text + "\r"
	}
	return text
}

// Derive copies the file attributes with a new line sequence
func (mf *MeshFile) Derive(lines []string) *MeshFile {
	return &MeshFile{
		Name:         mf.Name,
		Lines:        lines,
		CRLF:         mf.CRLF,
		FinalNewline: mf.FinalNewline,
	}
}

func (mf *MeshFile) Bytes() []byte {
	var b strings.Builder
	for i, line := range mf.Lines {
		b.WriteString(line)
		if i < len(mf.Lines)-1 || mf.FinalNewline {
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}
