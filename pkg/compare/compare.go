// Package compare decides whether two files are interchangeable copies of the
// same library.
//
// It is a pre-copy guard, not a content store: a missing file on either
// side never conflicts, and otherwise the files must be byte-identical.
package compare

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/spf13/afero"
)

const chunkSize = 64 * 1024

// AreCompatible reports whether a and b can stand in for each other.
// It returns true when either file does not exist, false when sizes differ,
// and otherwise the result of a full byte comparison.
func AreCompatible(fsys afero.Fs, a, b string) (bool, error) {
	fa, err := fsys.Open(a)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, errors.ErrCopy, "could not open %s for comparison", a)
	}
	defer fa.Close()

	fb, err := fsys.Open(b)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, errors.ErrCopy, "could not open %s for comparison", b)
	}
	defer fb.Close()

	ia, err := fa.Stat()
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrCopy, "could not stat %s", a)
	}
	ib, err := fb.Stat()
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrCopy, "could not stat %s", b)
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}

	equal, err := sameContent(bufio.NewReaderSize(fa, chunkSize), bufio.NewReaderSize(fb, chunkSize))
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrCopy, "could not compare %s and %s", a, b)
	}
	return equal, nil
}

func sameContent(ra, rb io.Reader) (bool, error) {
	bufA := make([]byte, chunkSize)
	bufB := make([]byte, chunkSize)

	for {
		na, errA := io.ReadFull(ra, bufA)
		nb, errB := io.ReadFull(rb, bufB)

		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}

		endA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		endB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if errA != nil && !endA {
			return false, errA
		}
		if errB != nil && !endB {
			return false, errB
		}
		if endA || endB {
			return endA && endB, nil
		}
	}
}
