package raster

import (
	"bytes"
	"fmt"
	"io"
)

// Control bytes of compressed lines. Bytes up to maxRepeat repeat the
// following pixel group c+1 times. fillWhite fills the rest of the
// line with white. Bytes above fillWhite copy 257-c literal groups.
const (
	maxRepeat = 0x7F
	fillWhite = 0x80

	// maxRun is the largest number of pixel groups a single control
	// byte can describe.
	maxRun = 128

	// maxLineRepeat is the largest number of identical lines a single
	// line-repeat byte can describe.
	maxLineRepeat = 256
)

func checkLine(n, groupSize int) error {
	if groupSize <= 0 {
		return fmt.Errorf("%w: group size %d", ErrInvalidField, groupSize)
	}
	if n == 0 || n%groupSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a positive multiple of the group size %d", ErrLineLength, n, groupSize)
	}
	return nil
}

// CompressLine appends the compressed form of line to dst and returns
// the extended buffer. The line-repeat byte that precedes lines in a
// stream is not included. line's length must be a positive multiple of
// groupSize.
//
// Runs of identical groups become repeat runs and everything else
// becomes literal runs, each covering at most 128 groups. A literal
// run of a single group is written as a repeat run of length one.
func CompressLine(dst, line []byte, groupSize int) ([]byte, error) {
	if err := checkLine(len(line), groupSize); err != nil {
		return dst, err
	}
	n := len(line) / groupSize
	group := func(i int) []byte {
		return line[i*groupSize : (i+1)*groupSize]
	}
	for i := 0; i < n; {
		j := i + 1
		for j < n && j-i < maxRun && bytes.Equal(group(j), group(i)) {
			j++
		}
		if j-i > 1 || j == n {
			dst = append(dst, byte(j-i-1))
			dst = append(dst, group(i)...)
			i = j
			continue
		}

		// Extend the literal while the next group differs from the one
		// after it; a pair of equal groups starts the next repeat run.
		for j < n && j-i < maxRun && (j+1 == n || !bytes.Equal(group(j), group(j+1))) {
			j++
		}
		if j-i == 1 {
			dst = append(dst, 0)
		} else {
			dst = append(dst, byte(257-(j-i)))
		}
		dst = append(dst, line[i*groupSize:j*groupSize]...)
		i = j
	}
	return dst, nil
}

// DecompressLine fills line with one decompressed line read from src.
// The line-repeat byte that precedes lines in a stream must already
// have been consumed. white is the value that the fill control byte
// writes. It returns ErrOverrun if a run extends past the end of the
// line, and ErrUnderrun if src ends before the line is complete.
func DecompressLine(line []byte, src io.ByteReader, groupSize int, white byte) error {
	if err := checkLine(len(line), groupSize); err != nil {
		return err
	}
	for off := 0; off < len(line); {
		c, err := src.ReadByte()
		if err != nil {
			return underrun(err)
		}
		switch {
		case c <= maxRepeat:
			n := (int(c) + 1) * groupSize
			if off+n > len(line) {
				return ErrOverrun
			}
			if err := readFull(src, line[off:off+groupSize]); err != nil {
				return underrun(err)
			}
			for i := groupSize; i < n; i *= 2 {
				copy(line[off+i:off+n], line[off:off+i])
			}
			off += n
		case c == fillWhite:
			fill(line[off:], white)
			off = len(line)
		default:
			n := (257 - int(c)) * groupSize
			if off+n > len(line) {
				return ErrOverrun
			}
			if err := readFull(src, line[off:off+n]); err != nil {
				return underrun(err)
			}
			off += n
		}
	}
	return nil
}

func underrun(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %w", ErrUnderrun, io.ErrUnexpectedEOF)
	}
	return err
}

func readFull(src io.ByteReader, b []byte) error {
	if r, ok := src.(io.Reader); ok {
		_, err := io.ReadFull(r, b)
		return err
	}
	for i := range b {
		c, err := src.ReadByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		b[i] = c
	}
	return nil
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
