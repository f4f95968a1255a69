// Package image provides the loaded firmware image as sparse byte memory.
// PIC images rarely cover the full address space, HEX files describe a list
// of byte segments with gaps in between.
package image

import (
	"cmp"
	"slices"
)

// Segment is a continuous run of bytes starting at a byte address.
type Segment struct {
	Address int
	Data    []byte
}

// Image is a read only sparse byte memory assembled from segments.
type Image struct {
	segments []Segment
}

// New creates an image from the given segments, sorted by address.
func New(segments ...Segment) *Image {
	img := &Image{
		segments: slices.Clone(segments),
	}
	slices.SortFunc(img.segments, func(a, b Segment) int {
		return cmp.Compare(a.Address, b.Address)
	})
	return img
}

// Byte returns the byte at the given byte address, false for addresses not
// covered by any segment.
func (img *Image) Byte(address int) (byte, bool) {
	for _, segment := range img.segments {
		if address >= segment.Address && address < segment.Address+len(segment.Data) {
			return segment.Data[address-segment.Address], true
		}
	}
	return 0, false
}

// Word returns the little endian 16 bit word starting at the given byte
// address, false if either byte is not covered.
func (img *Image) Word(address int) (uint16, bool) {
	low, ok := img.Byte(address)
	if !ok {
		return 0, false
	}
	high, ok := img.Byte(address + 1)
	if !ok {
		return 0, false
	}
	return uint16(high)<<8 | uint16(low), true
}

// Segments returns the segments of the image in ascending address order.
func (img *Image) Segments() []Segment {
	return img.segments
}

// Size returns the total number of bytes the image covers.
func (img *Image) Size() int {
	var size int
	for _, segment := range img.segments {
		size += len(segment.Data)
	}
	return size
}
