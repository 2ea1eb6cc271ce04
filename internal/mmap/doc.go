// Package mmap maps source images read-only into memory.
//
// The local blob store decodes pixmaps straight out of the mapping, so a
// large raster is read once by the kernel and never copied through an
// intermediate buffer.
//
//	m, err := mmap.Open("xmas.ppm")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	img, err := ppm.Decode[uint8](m.Reader(), "xmas.ppm")
//
// Unix uses mmap(2) and madvise(2); Windows uses MapViewOfFile and treats
// Advise as a no-op.
package mmap
