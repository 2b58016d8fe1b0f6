package export

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/x448/float16"
)

// WriteFloat16 writes values as little-endian IEEE 754 binary16. Values
// outside the half-precision range become ±Inf; NaN is preserved.
func WriteFloat16(w io.Writer, values []float64) error {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[2*i:], float16.Fromfloat32(float32(v)).Bits())
	}
	_, err := w.Write(buf)
	return err
}

// ReadFloat16 decodes n half-precision values written by WriteFloat16.
func ReadFloat16(r io.Reader, n int) ([]float64, error) {
	buf := make([]byte, 2*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(float16.Frombits(binary.LittleEndian.Uint16(buf[2*i:])).Float32())
	}
	return out, nil
}

// WriteFloat16File writes values to dir/name.f16 and returns the path.
func WriteFloat16File(dir, name string, values []float64) (string, error) {
	path := filepath.Join(dir, name+".f16")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create plane file: %w", err)
	}
	if err := WriteFloat16(f, values); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
