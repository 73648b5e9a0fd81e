package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"OSR/internal/cascade"
	"OSR/internal/texture"
)

// dumpHeader precedes the texel payload: magic, side length, channel count.
type dumpHeader struct {
	Magic    [4]byte
	N        uint32
	Channels uint32
}

var dumpMagic = [4]byte{'O', 'S', 'R', 'H'}

// writeDump stores the surface as three half-float images in a row:
// displacement RGBA, normal RGBA (alpha holds foam) and foam R.
func writeDump(path string, s *cascade.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := encodeDump(w, s); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing dump: %w", err)
	}
	return f.Close()
}

func encodeDump(w io.Writer, s *cascade.Surface) error {
	hdr := dumpHeader{Magic: dumpMagic, N: uint32(s.N), Channels: 9}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("writing dump header: %w", err)
	}
	var buf []texture.Half
	buf = s.Displacement.RGBA16F(buf, 1)
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("writing displacement: %w", err)
	}
	buf = s.Normal.RGBA16F(buf, 0)
	for i, foam := range s.Foam.Texels {
		buf[i*4+3] = texture.HalfFrom(foam)
	}
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("writing normals: %w", err)
	}
	buf = s.Foam.R16F(buf)
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("writing foam: %w", err)
	}
	return nil
}
