package export

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/voxelsplace/voxslicer/voxel"
)

// ErrBadPack is returned for data that is not a valid cuboid pack.
var ErrBadPack = errors.New("export: invalid cuboid pack")

// PackCompression selects the codec of the pack content section.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZlib PackCompression = 1
	PackCompZstd PackCompression = 2
)

// ParsePackCompression accepts "none", "zlib" and "zstd".
func ParsePackCompression(s string) (PackCompression, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return PackCompNone, nil
	case "zlib":
		return PackCompZlib, nil
	case "zstd":
		return PackCompZstd, nil
	}
	return PackCompNone, fmt.Errorf("unknown pack compression %q", s)
}

const (
	packMagicStr = "VBOX"
	packVersion1 = 1
	// magic, version, compression
	packHeaderLen = 6
	// trailing xxhash64 of the uncompressed content
	packTrailerLen = 8
)

// Pack is a list of placements over a volume. It implements voxel.Placer.
type Pack struct {
	Size       voxel.Size
	Placements []voxel.Placement

	mu sync.Mutex
}

// NewPack returns an empty pack for a volume of the given size.
func NewPack(size voxel.Size) *Pack {
	return &Pack{Size: size}
}

// Place appends p.
func (p *Pack) Place(pl voxel.Placement) error {
	p.mu.Lock()
	p.Placements = append(p.Placements, pl)
	p.mu.Unlock()
	return nil
}

type packElement struct {
	id   voxel.ElementID
	name string
}

// content serializes the uncompressed content section.
func (p *Pack) content() []byte {
	var elements []packElement
	elementRef := make(map[voxel.ElementID]uint32)
	var colors [][4]uint8
	colorRef := make(map[[4]uint8]uint32)

	for _, pl := range p.Placements {
		if pl.Element.Valid() {
			if _, ok := elementRef[pl.Element]; !ok {
				elements = append(elements, packElement{pl.Element, pl.Name})
				elementRef[pl.Element] = uint32(len(elements))
			}
		}
		q := pl.Color.RGBA8()
		if _, ok := colorRef[q]; !ok {
			colorRef[q] = uint32(len(colors))
			colors = append(colors, q)
		}
	}

	out := make([]byte, 0, 64+len(p.Placements)*8)
	for _, s := range p.Size {
		out = writeUVarint(out, uint32(s))
	}
	out = writeUVarint(out, uint32(len(elements)))
	for _, e := range elements {
		out = writeUVarint(out, uint32(e.id))
		out = writeUVarint(out, uint32(len(e.name)))
		out = append(out, e.name...)
	}
	out = writeUVarint(out, uint32(len(colors)))
	for _, c := range colors {
		out = append(out, c[:]...)
	}
	out = writeUVarint(out, uint32(len(p.Placements)))
	for _, pl := range p.Placements {
		ext := pl.Extent()
		for a := 0; a < 3; a++ {
			out = writeUVarint(out, uint32(pl.From[a]))
		}
		for a := 0; a < 3; a++ {
			out = writeUVarint(out, uint32(ext[a]-1))
		}
		var ref uint32
		if pl.Element.Valid() {
			ref = elementRef[pl.Element]
		}
		out = writeUVarint(out, ref)
		out = writeUVarint(out, colorRef[pl.Color.RGBA8()])
	}
	return out
}

// Marshal encodes the pack with the given compression.
func (p *Pack) Marshal(comp PackCompression) ([]byte, error) {
	p.mu.Lock()
	content := p.content()
	p.mu.Unlock()

	var body []byte
	switch comp {
	case PackCompNone:
		body = content
	case PackCompZlib:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(content); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		body = buf.Bytes()
	case PackCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(content, nil)
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported pack compression: %d", comp)
	}

	return frame(comp, body, content), nil
}

// frame wraps body in the pack header and the checksum trailer of content.
func frame(comp PackCompression, body, content []byte) []byte {
	out := make([]byte, 0, packHeaderLen+len(body)+packTrailerLen)
	out = append(out, packMagicStr...)
	out = append(out, packVersion1, byte(comp))
	out = append(out, body...)
	return binary.LittleEndian.AppendUint64(out, xxhash.Sum64(content))
}

// UnmarshalPack parses a cuboid pack and returns it with the compression
// it was written with.
func UnmarshalPack(data []byte) (*Pack, PackCompression, error) {
	if len(data) < packHeaderLen+packTrailerLen || string(data[:4]) != packMagicStr {
		return nil, 0, fmt.Errorf("%w: bad magic", ErrBadPack)
	}
	if data[4] != packVersion1 {
		return nil, 0, fmt.Errorf("%w: unsupported version %d", ErrBadPack, data[4])
	}
	comp := PackCompression(data[5])
	body := data[packHeaderLen : len(data)-packTrailerLen]
	sum := binary.LittleEndian.Uint64(data[len(data)-packTrailerLen:])

	var content []byte
	switch comp {
	case PackCompNone:
		content = body
	case PackCompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrBadPack, err)
		}
		defer zr.Close()
		content, err = io.ReadAll(zr)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrBadPack, err)
		}
	case PackCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, 0, err
		}
		defer dec.Close()
		content, err = dec.DecodeAll(body, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrBadPack, err)
		}
	default:
		return nil, 0, fmt.Errorf("%w: unsupported compression %d", ErrBadPack, comp)
	}
	if xxhash.Sum64(content) != sum {
		return nil, 0, fmt.Errorf("%w: checksum mismatch", ErrBadPack)
	}

	p, err := parseContent(content)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadPack, err)
	}
	return p, comp, nil
}

func parseContent(src []byte) (*Pack, error) {
	pos := 0
	next := func() (int, error) {
		v, err := readUVarint(src, &pos)
		return int(v), err
	}

	p := &Pack{}
	for a := 0; a < 3; a++ {
		v, err := next()
		if err != nil {
			return nil, err
		}
		p.Size[a] = v
	}

	nElements, err := next()
	if err != nil {
		return nil, err
	}
	// an element is at least an id and a name length
	if nElements > (len(src)-pos)/2 {
		return nil, fmt.Errorf("element count %d exceeds content", nElements)
	}
	elements := make([]packElement, 0, nElements)
	for i := 0; i < nElements; i++ {
		id, err := next()
		if err != nil {
			return nil, err
		}
		n, err := next()
		if err != nil {
			return nil, err
		}
		if n > len(src)-pos {
			return nil, io.ErrUnexpectedEOF
		}
		elements = append(elements, packElement{voxel.ElementID(id), string(src[pos : pos+n])})
		pos += n
	}

	nColors, err := next()
	if err != nil {
		return nil, err
	}
	if nColors > (len(src)-pos)/4 {
		return nil, fmt.Errorf("color count %d exceeds content", nColors)
	}
	colors := make([]voxel.Color, nColors)
	for i := range colors {
		colors[i] = voxel.Color8(src[pos], src[pos+1], src[pos+2], src[pos+3])
		pos += 4
	}

	nCuboids, err := next()
	if err != nil {
		return nil, err
	}
	// a cuboid is eight varints of at least one byte each
	if nCuboids > (len(src)-pos)/8 {
		return nil, fmt.Errorf("cuboid count %d exceeds content", nCuboids)
	}
	p.Placements = make([]voxel.Placement, 0, nCuboids)
	for i := 0; i < nCuboids; i++ {
		var fields [8]int
		for f := range fields {
			if fields[f], err = next(); err != nil {
				return nil, err
			}
		}
		pl := voxel.Placement{Element: voxel.NoElement}
		for a := 0; a < 3; a++ {
			pl.From[a] = fields[a]
			pl.To[a] = fields[a] + fields[3+a]
		}
		if ref := fields[6]; ref > 0 {
			if ref > len(elements) {
				return nil, fmt.Errorf("element ref %d out of range", ref)
			}
			pl.Element = elements[ref-1].id
			pl.Name = elements[ref-1].name
		}
		if fields[7] >= len(colors) {
			return nil, fmt.Errorf("color ref %d out of range", fields[7])
		}
		pl.Color = colors[fields[7]]
		p.Placements = append(p.Placements, pl)
	}
	if pos != len(src) {
		return nil, fmt.Errorf("%d trailing bytes", len(src)-pos)
	}
	return p, nil
}

// SavePack writes the pack to path.
func SavePack(p *Pack, path string, comp PackCompression) error {
	data, err := p.Marshal(comp)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadPack reads a pack file.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, _, err := UnmarshalPack(data)
	return p, err
}
