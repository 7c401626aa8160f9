package backend

import (
	"bufio"
	"io"
)

// lineReader is a specialized reader that ensures only entire newline-delimited lines are
// read at a time. This is useful when attempting to parse a file that is being actively
// written to, as you don't actually attempt to parse any partial lines.
//
// The reader tracks how many bytes of complete lines it has handed out, so that a
// reopened file can be resumed at the same place.
type lineReader struct {
	r        *bufio.Reader
	partial  []byte
	consumed int64
}

func newLineReader(r io.Reader, offset int64) *lineReader {
	return &lineReader{
		r:        bufio.NewReader(r),
		consumed: offset,
	}
}

// ReadLine returns the next complete line without its trailing newline. When only
// part of a line is available it is buffered and io.EOF is returned; a later call
// completes it once the rest has been written.
func (l *lineReader) ReadLine() (string, error) {
	data, err := l.r.ReadBytes('\n')
	if err != nil {
		l.partial = append(l.partial, data...)
		if err == io.EOF {
			return "", io.EOF
		}
		return "", err
	}
	if len(l.partial) > 0 {
		data = append(l.partial, data...)
		l.partial = nil
	}
	l.consumed += int64(len(data))
	return string(data[:len(data)-1]), nil
}

// Offset is the number of bytes, from the start of the file, covered by the
// complete lines returned so far.
func (l *lineReader) Offset() int64 {
	return l.consumed
}

// Position is the number of bytes, from the start of the file, read so far,
// including a buffered unterminated line.
func (l *lineReader) Position() int64 {
	return l.consumed + int64(len(l.partial))
}
