package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
)

// Format é o tipo de arquivo deduzido pela extensão.
type Format int

const (
	FormatOther Format = iota
	FormatGLB
	FormatGLTF
)

func (f Format) String() string {
	switch f {
	case FormatGLB:
		return "glb"
	case FormatGLTF:
		return "gltf"
	default:
		return "outro"
	}
}

// DetectFormat olha só a extensão; query strings de URL são ignoradas.
func DetectFormat(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".glb":
		return FormatGLB
	case ".gltf":
		return FormatGLTF
	default:
		return FormatOther
	}
}

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
	glbChunkHead = 8

	maxJSONLen = 64 << 20
)

// validator recebe os bytes conforme chegam e decide no fim se o asset é aceitável.
type validator interface {
	io.Writer
	Finish(n int64) error
}

func newValidator(f Format) validator {
	switch f {
	case FormatGLB:
		return &glbValidator{}
	case FormatGLTF:
		return &gltfValidator{}
	default:
		return passValidator{}
	}
}

type passValidator struct{}

func (passValidator) Write(p []byte) (int, error) { return len(p), nil }
func (passValidator) Finish(int64) error { return nil }

// glbValidator guarda o cabeçalho, o cabeçalho do primeiro chunk e o JSON do documento.
// O chunk binário passa direto.
type glbValidator struct {
	buf  []byte
	need int
}

func (v *glbValidator) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		want := v.wanted()
		if want <= len(v.buf) {
			break
		}
		take := want - len(v.buf)
		if take > len(p) {
			take = len(p)
		}
		v.buf = append(v.buf, p[:take]...)
		p = p[take:]
	}
	return n, nil
}

// wanted retorna quantos bytes do início do arquivo ainda interessam.
func (v *glbValidator) wanted() int {
	if len(v.buf) < glbHeaderLen+glbChunkHead {
		return glbHeaderLen + glbChunkHead
	}
	if v.need == 0 {
		l := binary.LittleEndian.Uint32(v.buf[glbHeaderLen:])
		if l > maxJSONLen {
			l = 0 // Finish rejeita
		}
		v.need = glbHeaderLen + glbChunkHead + int(l)
	}
	return v.need
}

func (v *glbValidator) Finish(n int64) error {
	if len(v.buf) < glbHeaderLen {
		return fmt.Errorf("%w: GLB com %d bytes, menor que o cabeçalho", ErrInvalidAsset, n)
	}
	if magic := binary.LittleEndian.Uint32(v.buf[0:]); magic != glbMagic {
		return fmt.Errorf("%w: assinatura GLB inválida (0x%08X)", ErrInvalidAsset, magic)
	}
	if version := binary.LittleEndian.Uint32(v.buf[4:]); version != glbVersion {
		return fmt.Errorf("%w: versão GLB %d não suportada", ErrInvalidAsset, version)
	}
	if length := binary.LittleEndian.Uint32(v.buf[8:]); int64(length) != n {
		return fmt.Errorf("%w: cabeçalho declara %d bytes, recebidos %d", ErrInvalidAsset, length, n)
	}
	if len(v.buf) < glbHeaderLen+glbChunkHead {
		return fmt.Errorf("%w: GLB sem chunk JSON", ErrInvalidAsset)
	}
	if typ := binary.LittleEndian.Uint32(v.buf[glbHeaderLen+4:]); typ != glbChunkJSON {
		return fmt.Errorf("%w: primeiro chunk GLB não é JSON", ErrInvalidAsset)
	}
	if v.need == 0 || len(v.buf) < v.need || v.need == glbHeaderLen+glbChunkHead {
		return fmt.Errorf("%w: chunk JSON truncado", ErrInvalidAsset)
	}
	return checkDocument(v.buf[glbHeaderLen+glbChunkHead:])
}

// gltfValidator acumula o documento inteiro (o .gltf é só JSON).
type gltfValidator struct {
	buf      []byte
	overflow bool
}

func (v *gltfValidator) Write(p []byte) (int, error) {
	if len(v.buf)+len(p) > maxJSONLen {
		v.overflow = true
		return len(p), nil
	}
	v.buf = append(v.buf, p...)
	return len(p), nil
}

func (v *gltfValidator) Finish(n int64) error {
	if v.overflow {
		return fmt.Errorf("%w: documento glTF maior que %d bytes", ErrInvalidAsset, maxJSONLen)
	}
	return checkDocument(v.buf)
}

// checkDocument exige um JSON com asset.version 2.x.
func checkDocument(data []byte) error {
	var doc struct {
		Asset struct {
			Version string `json:"version"`
		} `json:"asset"`
	}
	// O chunk JSON do GLB pode vir com espaços de preenchimento no final, que o decoder aceita
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: JSON do glTF ilegível: %v", ErrInvalidAsset, err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return fmt.Errorf("%w: versão glTF %q não suportada", ErrInvalidAsset, doc.Asset.Version)
	}
	return nil
}
