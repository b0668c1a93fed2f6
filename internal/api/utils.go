package api

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
)

func readAllLimited(r *http.Request, max int64) ([]byte, error) {
	rr := http.MaxBytesReader(nil, r.Body, max)
	defer rr.Close()
	return io.ReadAll(rr)
}

// newSeed draws a game seed from crypto/rand. The seed is echoed back to the
// client so any game can be replayed.
func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
