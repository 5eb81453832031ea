package vfsapi_test

import (
	"testing"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/PapiCZ/minivsfs/vfsapi"
	. "github.com/onsi/gomega"
)

func problems(err error) []string {
	failed, ok := err.(vfsapi.CheckFailed)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(failed.Problems))
	for _, p := range failed.Problems {
		out = append(out, p.String())
	}
	return out
}

func TestCheckFreshImage(t *testing.T) {
	g := NewWithT(t)
	g.Expect(vfsapi.FsCheck(prepareFS(t))).To(Succeed())
}

func TestCheckDetectsInodeCorruption(t *testing.T) {
	g := NewWithT(t)
	fs := prepareFS(t)

	result, err := vfsapi.AddFile(fs, "a.txt", []byte("abc"), addTime)
	g.Expect(err).NotTo(HaveOccurred())

	// Flip a byte of the size field behind the checksum's back.
	ptr := vfs.InodePtrToVolumePtr(fs.Superblock, result.InodePtr) + 12
	b, err := fs.Volume.ReadByte(ptr)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fs.Volume.WriteByte(ptr, b^0x10)).To(Succeed())

	err = vfsapi.FsCheck(fs)
	g.Expect(err).To(HaveOccurred())
	g.Expect(problems(err)).To(ContainElement("inode 2: checksum mismatch"))
}

func TestCheckDetectsDirectoryEntryCorruption(t *testing.T) {
	g := NewWithT(t)
	fs := prepareFS(t)

	_, err := vfsapi.AddFile(fs, "a.txt", []byte("abc"), addTime)
	g.Expect(err).NotTo(HaveOccurred())

	region, err := vfs.RootDirectoryRegion(fs)
	g.Expect(err).NotTo(HaveOccurred())
	ptr := vfs.DirectoryEntryVolumePtr(region, 2) + 6
	g.Expect(fs.Volume.WriteByte(ptr, 'X')).To(Succeed())

	err = vfsapi.FsCheck(fs)
	g.Expect(problems(err)).To(ContainElement(ContainSubstring("checksum mismatch")))
}

func TestCheckDetectsBitmapLeaks(t *testing.T) {
	g := NewWithT(t)
	fs := prepareFS(t)

	fs.DataBitmap.SetBit(5)
	fs.InodeBitmap.SetBit(9)

	err := vfsapi.FsCheck(fs)
	g.Expect(err).To(HaveOccurred())
	g.Expect(problems(err)).To(ConsistOf(
		"inode 10: marked used but not referenced",
		"block 12: marked used but not referenced",
	))
}

func TestCheckDetectsStaleSuperblock(t *testing.T) {
	g := NewWithT(t)
	fs := prepareFS(t)

	fs.Superblock.MtimeEpoch++
	block, err := fs.Volume.Slice(vfs.Region{Start: 0, Length: vfs.BlockSize})
	g.Expect(err).NotTo(HaveOccurred())
	fs.Superblock.Encode(block)

	g.Expect(problems(vfsapi.FsCheck(fs))).To(ContainElement("superblock: checksum mismatch"))

	g.Expect(fs.SaveSuperblock()).To(Succeed())
	g.Expect(vfsapi.FsCheck(fs)).To(Succeed())
}
