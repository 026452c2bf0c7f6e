package raster

import (
	"encoding/binary"
	"io"
)

// Version identifies one of the supported raster formats.
type Version int

const (
	VersionURF Version = iota + 1
	VersionCUPS1
	VersionCUPS2
	VersionCUPS3
)

// VersionPWG is the version PWG Raster streams are written as. PWG
// Raster is CUPS Raster version 2, big-endian, with a restricted set of
// header values.
const VersionPWG = VersionCUPS2

func (v Version) String() string {
	switch v {
	case VersionURF:
		return "URF"
	case VersionCUPS1:
		return "CUPS-V1"
	case VersionCUPS2:
		return "CUPS-V2"
	case VersionCUPS3:
		return "CUPS-V3"
	default:
		return "unknown"
	}
}

// Compressed reports whether page data of this version is run-length
// encoded.
func (v Version) Compressed() bool {
	return v == VersionCUPS2 || v == VersionURF
}

func (v Version) valid() bool {
	return v >= VersionURF && v <= VersionCUPS3
}

// Format is the version and byte order of a stream. Both are fixed by
// the stream's magic token.
type Format struct {
	Version   Version
	ByteOrder binary.ByteOrder
}

// PWG is the format of PWG Raster streams.
var PWG = Format{Version: VersionPWG, ByteOrder: binary.BigEndian}

// URF is the format of Apple Raster streams, which are always
// big-endian.
var URF = Format{Version: VersionURF, ByteOrder: binary.BigEndian}

func (f Format) String() string {
	if f.ByteOrder == binary.LittleEndian {
		return f.Version.String() + "/LE"
	}
	return f.Version.String() + "/BE"
}

const (
	syncV1BE = "RaSt"
	syncV1LE = "tSaR"

	syncV2BE = "RaS2"
	syncV2LE = "2SaR"

	syncV3BE = "RaS3"
	syncV3LE = "3SaR"

	// URF's magic is twice as long as the CUPS sync words. Its first
	// half doesn't collide with any of them.
	syncURF     = "UNIRAST\x00"
	syncURFHead = "UNIR"
)

var magics = map[string]Format{
	syncV1BE: {VersionCUPS1, binary.BigEndian},
	syncV1LE: {VersionCUPS1, binary.LittleEndian},
	syncV2BE: {VersionCUPS2, binary.BigEndian},
	syncV2LE: {VersionCUPS2, binary.LittleEndian},
	syncV3BE: {VersionCUPS3, binary.BigEndian},
	syncV3LE: {VersionCUPS3, binary.LittleEndian},
	syncURF:  {VersionURF, binary.BigEndian},
}

func parseMagic(b []byte) (Format, bool) {
	f, ok := magics[string(b)]
	return f, ok
}

// magic returns the magic token that starts a stream of format f.
func (f Format) magic() (string, error) {
	little := f.ByteOrder == binary.LittleEndian
	if !little && f.ByteOrder != binary.BigEndian {
		return "", ErrUnsupported
	}
	switch f.Version {
	case VersionURF:
		if little {
			return "", ErrUnsupported
		}
		return syncURF, nil
	case VersionCUPS1:
		if little {
			return syncV1LE, nil
		}
		return syncV1BE, nil
	case VersionCUPS2:
		if little {
			return syncV2LE, nil
		}
		return syncV2BE, nil
	case VersionCUPS3:
		if little {
			return syncV3LE, nil
		}
		return syncV3BE, nil
	default:
		return "", ErrUnrecognizedFormat
	}
}

// Detect reads the magic token at the start of a stream and returns the
// stream's format. It consumes exactly the token: four bytes for CUPS
// Raster, eight for URF. The URF page count that follows the token is
// left unread.
func Detect(r io.Reader) (Format, error) {
	b := make([]byte, len(syncURF))
	if _, err := io.ReadFull(r, b[:4]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Format{}, ErrUnrecognizedFormat
		}
		return Format{}, err
	}
	if string(b[:4]) != syncURFHead {
		f, ok := parseMagic(b[:4])
		if !ok {
			return Format{}, ErrUnrecognizedFormat
		}
		return f, nil
	}
	if _, err := io.ReadFull(r, b[4:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Format{}, ErrUnrecognizedFormat
		}
		return Format{}, err
	}
	f, ok := parseMagic(b)
	if !ok {
		return Format{}, ErrUnrecognizedFormat
	}
	return f, nil
}
