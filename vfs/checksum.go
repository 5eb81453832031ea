package vfs

import (
	"encoding/binary"
	"hash/crc32"
)

// Reflected CRC-32, polynomial 0xEDB88320. The table is built once at package
// initialization and only read afterwards.
var crcTable = crc32.MakeTable(crc32.IEEE)

// Checksum returns the CRC-32 of data (init and final XOR 0xFFFFFFFF).
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, crcTable)
}

// FinalizeSuperblockChecksum zeroes the checksum field of block 0, hashes the
// block except its final 4 bytes and stores the result. Call it only after
// every other superblock field is final.
func FinalizeSuperblockChecksum(block []byte) uint32 {
	field := block[sbChecksumOffset : sbChecksumOffset+4]
	binary.LittleEndian.PutUint32(field, 0)
	sum := Checksum(block[:BlockSize-4])
	binary.LittleEndian.PutUint32(field, sum)
	return sum
}

// FinalizeInodeChecksum stores CRC32 of bytes [0,120) in the low half of the
// trailing 64-bit field.
func FinalizeInodeChecksum(record []byte) uint32 {
	binary.LittleEndian.PutUint64(record[inodeChecksumOffset:InodeSize], 0)
	sum := Checksum(record[:inodeChecksumOffset])
	binary.LittleEndian.PutUint64(record[inodeChecksumOffset:InodeSize], uint64(sum))
	return sum
}

// FinalizeDirectoryEntryChecksum stores the XOR of bytes [0,63) in byte 63.
func FinalizeDirectoryEntryChecksum(record []byte) byte {
	var x byte
	for _, b := range record[:direntChecksumOffset] {
		x ^= b
	}
	record[direntChecksumOffset] = x
	return x
}

func VerifySuperblockChecksum(block []byte) bool {
	tmp := make([]byte, BlockSize)
	copy(tmp, block)
	stored := binary.LittleEndian.Uint32(block[sbChecksumOffset:])
	return FinalizeSuperblockChecksum(tmp) == stored
}

func VerifyInodeChecksum(record []byte) bool {
	var tmp [InodeSize]byte
	copy(tmp[:], record)
	stored := binary.LittleEndian.Uint64(record[inodeChecksumOffset:])
	return uint64(FinalizeInodeChecksum(tmp[:])) == stored
}

func VerifyDirectoryEntryChecksum(record []byte) bool {
	var tmp [DirectoryEntrySize]byte
	copy(tmp[:], record)
	return FinalizeDirectoryEntryChecksum(tmp[:]) == record[direntChecksumOffset]
}
