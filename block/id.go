package block

import (
	"strconv"
	"strings"

	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// IdentificationSize is the fixed on-disk size of the ID block.
const IdentificationSize = 64

// FileIDFinalized and FileIDUnfinalized are the two recognized ID.fileId values.
const (
	FileIDFinalized   = "MDF     "
	FileIDUnfinalized = "UnFinMF "
)

// Identification is the fixed-offset-0 ID block.
type Identification struct {
	FileID           string
	VersionStr       string
	ProgID           string
	VersionNum       uint16
	UnfinalizedFlags uint16
	CustomFlags      uint16
}

// Unfinalized reports whether the file identifies itself as not yet finalized.
func (id Identification) Unfinalized() bool {
	return id.FileID == FileIDUnfinalized
}

// Major and Minor split VersionNum (e.g. 410 -> 4, 10).
func (id Identification) Major() int { return int(id.VersionNum) / 100 }
func (id Identification) Minor() int { return int(id.VersionNum) % 100 }

// ParseIdentification parses the 64-byte ID block at the start of the file.
func ParseIdentification(buf []byte) (Identification, error) {
	if err := endian.ValidateBufferSize(buf, IdentificationSize, "block.ParseIdentification"); err != nil {
		return Identification{}, err
	}

	fileID := string(buf[0:8])
	if fileID != FileIDFinalized && fileID != FileIDUnfinalized {
		return Identification{}, errs.NewFileIdentifier(fileID)
	}

	versionStr := strings.TrimRight(string(buf[8:16]), " \x00")
	progID := strings.TrimRight(string(buf[16:24]), " \x00")

	versionNum, err := endian.ReadU16(buf, 28)
	if err != nil {
		return Identification{}, err
	}

	unfinalizedFlags, err := endian.ReadU16(buf, 60)
	if err != nil {
		return Identification{}, err
	}

	customFlags, err := endian.ReadU16(buf, 62)
	if err != nil {
		return Identification{}, err
	}

	if err := validateVersionString(versionStr); err != nil {
		return Identification{}, err
	}

	return Identification{
		FileID:           fileID,
		VersionStr:       versionStr,
		ProgID:           progID,
		VersionNum:       versionNum,
		UnfinalizedFlags: unfinalizedFlags,
		CustomFlags:      customFlags,
	}, nil
}

func validateVersionString(s string) error {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return errs.NewInvalidVersionString(s)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return errs.NewInvalidVersionString(s)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return errs.NewInvalidVersionString(s)
	}

	return nil
}

// Bytes serializes the ID block to 64 bytes.
func (id Identification) Bytes() []byte {
	buf := make([]byte, IdentificationSize)
	for i := range buf {
		buf[i] = ' '
	}

	copy(buf[0:8], padOrTrunc(id.FileID, 8))
	copy(buf[8:16], padOrTrunc(id.VersionStr, 8))
	copy(buf[16:24], padOrTrunc(id.ProgID, 8))
	buf = endian.WriteU16(buf, 28, id.VersionNum)
	buf = endian.WriteU16(buf, 60, id.UnfinalizedFlags)
	buf = endian.WriteU16(buf, 62, id.CustomFlags)

	return buf
}

func padOrTrunc(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, []byte(s))
	if len(s) > n {
		copy(b, []byte(s)[:n])
	}

	return b
}
