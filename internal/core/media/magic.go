package media

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind is a container format recognized by its leading bytes.
type Kind string

const (
	KindUnknown Kind = ""
	KindMP4     Kind = "mp4"
	KindMOV     Kind = "mov"
	KindWebM    Kind = "webm"
	KindMKV     Kind = "mkv"
	KindWAV     Kind = "wav"
	KindMP3     Kind = "mp3"
	KindFLAC    Kind = "flac"
	KindOGG     Kind = "ogg"
)

// IsVideo reports whether the kind is one of the accepted video containers.
func (k Kind) IsVideo() bool {
	switch k {
	case KindMP4, KindMOV, KindWebM, KindMKV:
		return true
	}
	return false
}

const sniffLen = 64

// Detect identifies the container from the first bytes of a file.
func Detect(head []byte) Kind {
	switch {
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return KindWAV
	case bytes.HasPrefix(head, []byte("fLaC")):
		return KindFLAC
	case bytes.HasPrefix(head, []byte("OggS")):
		return KindOGG
	case bytes.HasPrefix(head, []byte("ID3")):
		return KindMP3
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return KindMP3
	case bytes.HasPrefix(head, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		if bytes.Contains(head, []byte("webm")) {
			return KindWebM
		}
		return KindMKV
	case len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp")):
		if bytes.Equal(head[8:10], []byte("qt")) {
			return KindMOV
		}
		return KindMP4
	case len(head) >= 8 && (bytes.Equal(head[4:8], []byte("moov")) ||
		bytes.Equal(head[4:8], []byte("mdat")) ||
		bytes.Equal(head[4:8], []byte("wide"))):
		return KindMOV
	}
	return KindUnknown
}

// DetectReader sniffs r and returns the kind together with a reader that
// replays the consumed bytes.
func DetectReader(r io.Reader) (Kind, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnknown, nil, err
	}
	head = head[:n]
	return Detect(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// DetectFile sniffs a file on disk.
func DetectFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnknown, err
	}
	if n == 0 {
		return KindUnknown, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	return Detect(head[:n]), nil
}

// KindFromExt maps a file extension to a kind.
func KindFromExt(name string) Kind {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".") {
	case "mp4", "m4v", "m4a":
		return KindMP4
	case "mov":
		return KindMOV
	case "webm":
		return KindWebM
	case "mkv":
		return KindMKV
	case "wav":
		return KindWAV
	case "mp3":
		return KindMP3
	case "flac":
		return KindFLAC
	case "ogg", "oga", "opus":
		return KindOGG
	}
	return KindUnknown
}
