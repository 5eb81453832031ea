package vfs

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/google/renameio"
	"github.com/pkg/errors"
)

type VolumePtr int64

// Region is a byte range of the volume.
type Region struct {
	Start  VolumePtr
	Length VolumePtr
}

func (r Region) End() VolumePtr {
	return r.Start + r.Length
}

func BlockRegion(start, blocks uint64) Region {
	return Region{
		Start:  BlockToVolumePtr(start),
		Length: BlockToVolumePtr(blocks),
	}
}

// Volume owns the whole image in memory. Every access is bounds checked.
type Volume struct {
	data []byte
}

func NewVolume(size VolumePtr) *Volume {
	return &Volume{data: make([]byte, size)}
}

func NewVolumeFromBytes(data []byte) *Volume {
	return &Volume{data: data}
}

// LoadVolume reads the image at path into memory in one go.
func LoadVolume(path string) (*Volume, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read image %s", path)
	}

	return &Volume{data: data}, nil
}

func (v *Volume) Size() VolumePtr {
	return VolumePtr(len(v.data))
}

func (v *Volume) Bytes() []byte {
	return v.data
}

func (v *Volume) check(volumePtr VolumePtr, length VolumePtr) error {
	if volumePtr < 0 || length < 0 || volumePtr+length > v.Size() {
		return OutOfRange{volumePtr + length, v.Size()}
	}
	return nil
}

// Slice returns the region as a view into the volume buffer, so writes
// through it land in the image.
func (v *Volume) Slice(region Region) ([]byte, error) {
	err := v.check(region.Start, region.Length)
	if err != nil {
		return nil, err
	}

	return v.data[region.Start:region.End():region.End()], nil
}

func (v *Volume) ReadBytes(volumePtr VolumePtr, length VolumePtr) ([]byte, error) {
	err := v.check(volumePtr, length)
	if err != nil {
		return nil, err
	}

	out := make([]byte, length)
	copy(out, v.data[volumePtr:])
	return out, nil
}

func (v *Volume) WriteBytes(volumePtr VolumePtr, data []byte) error {
	err := v.check(volumePtr, VolumePtr(len(data)))
	if err != nil {
		return err
	}

	copy(v.data[volumePtr:], data)
	return nil
}

func (v *Volume) ReadByte(volumePtr VolumePtr) (byte, error) {
	err := v.check(volumePtr, 1)
	if err != nil {
		return 0, err
	}

	return v.data[volumePtr], nil
}

func (v *Volume) WriteByte(volumePtr VolumePtr, data byte) error {
	err := v.check(volumePtr, 1)
	if err != nil {
		return err
	}

	v.data[volumePtr] = data
	return nil
}

// WrapWriter decorates the output stream of Save, e.g. with a progress bar.
type WrapWriter func(w io.Writer, size int64) io.Writer

// Save writes the whole volume to path. The data goes to a temporary file
// next to path which replaces it only after the last byte was written, so
// a failed write never leaves a partial image behind.
func (v *Volume) Save(path string, wrap WrapWriter) error {
	pending, err := renameio.TempFile("", path)
	if err != nil {
		return errors.Wrapf(err, "cannot create output image %s", path)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	var w io.Writer = pending
	if wrap != nil {
		w = wrap(pending, int64(len(v.data)))
	}

	n, err := w.Write(v.data)
	if err != nil {
		return errors.Wrapf(err, "cannot write output image %s", path)
	}
	if n != len(v.data) {
		return errors.Wrapf(io.ErrShortWrite, "cannot write output image %s", path)
	}

	err = pending.Chmod(0644)
	if err != nil {
		return errors.Wrapf(err, "cannot write output image %s", path)
	}

	err = pending.CloseAtomicallyReplace()
	if err != nil {
		return errors.Wrapf(err, "cannot write output image %s", path)
	}

	return nil
}

// Exists reports whether a regular file is present at path.
func Exists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}
