package assembler

import "github.com/irvm/iridium/vm"

// VMImage is the fully assembled program: a 64-byte header, the
// read-only data segment, and the packed code segment, ready to hand
// to a VM via AddBytes.
type VMImage struct {
	ROData []byte
	Code   []byte
}

// Bytes serializes the image to its wire layout: magic prefix, the
// RO length as a little-endian u32, zero padding out to 64 bytes,
// then the RO segment, then the code segment.
func (img *VMImage) Bytes() []byte {
	header := make([]byte, vm.HeaderSize)
	copy(header[0:4], vm.Magic[:])

	roLen := uint32(len(img.ROData))
	header[4] = byte(roLen)
	header[5] = byte(roLen >> 8)
	header[6] = byte(roLen >> 16)
	header[7] = byte(roLen >> 24)
	// bytes 8..64 stay zero.

	out := make([]byte, 0, len(header)+len(img.ROData)+len(img.Code))
	out = append(out, header...)
	out = append(out, img.ROData...)
	out = append(out, img.Code...)
	return out
}
