package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// Errors returned while reading the container and its buffers.
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errAccessorRange      = errors.New("accessor out of range")
)

// gltfParser reads a glTF or GLB container and gives typed access to its accessors and images.
type gltfParser struct {
	baseDir  string
	document *gltfDocument
	binChunk []byte
}

// parseGLTFFile reads path and parses it, detecting GLB by extension or magic number.
func parseGLTFFile(path string) (*gltfParser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic)
	return parseGLTFBytes(data, isGLB, filepath.Dir(path))
}

// parseGLTFBytes parses an in-memory document. Relative URIs resolve against baseDir.
func parseGLTFBytes(data []byte, isGLB bool, baseDir string) (*gltfParser, error) {
	p := &gltfParser{baseDir: baseDir}
	jsonData := data
	if isGLB {
		var err error
		jsonData, p.binChunk, err = splitGLB(data)
		if err != nil {
			return nil, err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errInvalidGLTFVersion
	}
	p.document = &doc
	if err := p.loadBuffers(); err != nil {
		return nil, fmt.Errorf("failed to load buffers: %w", err)
	}
	return p, nil
}

// splitGLB returns the JSON and BIN chunks of a GLB file.
func splitGLB(data []byte) (jsonData, binData []byte, err error) {
	if len(data) < 12 {
		return nil, nil, errors.New("GLB file too small")
	}
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, nil, errInvalidGLBVersion
	}

	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		payload := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = payload
		case gltfGLBChunkBIN:
			binData = payload
		}
	}
	if jsonData == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonData, binData, nil
}

// loadBuffers fills every buffer's Data from its URI or, for buffer 0 of a GLB, the BIN chunk.
func (p *gltfParser) loadBuffers() error {
	for i := range p.document.Buffers {
		buf := &p.document.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.binChunk != nil:
			buf.Data = p.binChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		default:
			data, err := p.readURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// readURI resolves a data URI or a path relative to the document.
func (p *gltfParser) readURI(uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		comma := strings.Index(uri, ",")
		if comma < 0 {
			return nil, errInvalidBufferURI
		}
		if !strings.Contains(uri[5:comma], "base64") {
			return nil, fmt.Errorf("unsupported data URI encoding: %s", uri[5:comma])
		}
		data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(uri)))
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", uri, err)
	}
	return data, nil
}

// bufferViewBytes returns the bytes of a bufferView.
func (p *gltfParser) bufferViewBytes(index int) ([]byte, *gltfBufferView, error) {
	if index < 0 || index >= len(p.document.BufferViews) {
		return nil, nil, fmt.Errorf("bufferView %d: %w", index, errAccessorRange)
	}
	bv := &p.document.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, nil, fmt.Errorf("bufferView %d references buffer %d: %w", index, bv.Buffer, errAccessorRange)
	}
	data := p.document.Buffers[bv.Buffer].Data
	if bv.ByteOffset+bv.ByteLength > len(data) {
		return nil, nil, fmt.Errorf("bufferView %d: %w", index, errBufferSizeMismatch)
	}
	return data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], bv, nil
}

// accessorElements returns the accessor and one byte slice per element.
func (p *gltfParser) accessorElements(index int) (*gltfAccessor, [][]byte, error) {
	if index < 0 || index >= len(p.document.Accessors) {
		return nil, nil, fmt.Errorf("accessor %d: %w", index, errAccessorRange)
	}
	acc := &p.document.Accessors[index]
	if acc.Sparse != nil {
		return nil, nil, fmt.Errorf("accessor %d: sparse accessors are not supported", index)
	}
	if acc.BufferView == nil {
		return nil, nil, fmt.Errorf("accessor %d has no bufferView", index)
	}
	view, bv, err := p.bufferViewBytes(*acc.BufferView)
	if err != nil {
		return nil, nil, err
	}

	elemSize := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if elemSize == 0 {
		return nil, nil, fmt.Errorf("accessor %d: unsupported layout %s/%d", index, acc.Type, acc.ComponentType)
	}
	stride := elemSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	elems := make([][]byte, acc.Count)
	for i := range elems {
		off := acc.ByteOffset + i*stride
		if off+elemSize > len(view) {
			return nil, nil, fmt.Errorf("accessor %d element %d: %w", index, i, errBufferSizeMismatch)
		}
		elems[i] = view[off : off+elemSize]
	}
	return acc, elems, nil
}

// readFloats reads an accessor of n-component vectors. Float components are read as-is;
// normalized unsigned byte and short components are scaled to [0, 1].
func (p *gltfParser) readFloats(index, n int) ([][]float32, error) {
	acc, elems, err := p.accessorElements(index)
	if err != nil {
		return nil, err
	}
	if componentCount(acc.Type) != n {
		return nil, fmt.Errorf("accessor %d: expected %d components, got %s", index, n, acc.Type)
	}

	out := make([][]float32, len(elems))
	for i, e := range elems {
		v := make([]float32, n)
		for c := range n {
			switch acc.ComponentType {
			case gltfComponentTypeFloat:
				v[c] = math.Float32frombits(binary.LittleEndian.Uint32(e[c*4:]))
			case gltfComponentTypeUnsignedByte:
				v[c] = float32(e[c]) / 255
			case gltfComponentTypeUnsignedShort:
				v[c] = float32(binary.LittleEndian.Uint16(e[c*2:])) / 65535
			default:
				return nil, fmt.Errorf("accessor %d: component type %d is not readable as float", index, acc.ComponentType)
			}
		}
		out[i] = v
	}
	return out, nil
}

// readIndices reads a scalar unsigned index accessor.
func (p *gltfParser) readIndices(index int) ([]uint32, error) {
	acc, elems, err := p.accessorElements(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor %d is %s: %w", index, acc.Type, ErrUnsupportedIndexFormat)
	}

	out := make([]uint32, len(elems))
	for i, e := range elems {
		switch acc.ComponentType {
		case gltfComponentTypeUnsignedByte:
			out[i] = uint32(e[0])
		case gltfComponentTypeUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case gltfComponentTypeUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		default:
			return nil, fmt.Errorf("index accessor %d component type %d: %w", index, acc.ComponentType, ErrUnsupportedIndexFormat)
		}
	}
	return out, nil
}

// readImage decodes an image from its bufferView or URI into RGBA8 pixels.
func (p *gltfParser) readImage(index int) (common.TextureStagingData, error) {
	if index < 0 || index >= len(p.document.Images) {
		return common.TextureStagingData{}, fmt.Errorf("image %d: %w", index, ErrImage)
	}
	img := &p.document.Images[index]

	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		data, _, err = p.bufferViewBytes(*img.BufferView)
	case img.URI != "":
		data, err = p.readURI(img.URI)
	default:
		err = errors.New("image has neither a bufferView nor a URI")
	}
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("image %d: %w: %w", index, ErrImage, err)
	}

	staging, err := common.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("image %d: %w: %w", index, ErrImage, err)
	}
	return staging, nil
}

// componentSize returns the byte size of a component type.
func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// componentCount returns the number of components for an accessor type.
func componentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	default:
		return 0
	}
}
