package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// ModelLoader reads Wavefront OBJ files.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	model, err := ParseOBJ(file, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var size uint64
	if fi, err := file.Stat(); err == nil {
		size = uint64(fi.Size())
	}
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeModel,
		DataSize: size,
		Data:     model,
	}, nil
}

func (ml *ModelLoader) Unload(*metadata.Resource) error {
	return nil
}

// objIndex addresses one corner of a face. -1 means the corner has no such entry.
type objIndex struct {
	position int
	texcoord int
	normal   int
}

// objMesh collects one sub-mesh while the file is read.
type objMesh struct {
	name    string
	lookup  map[objIndex]uint32
	corners []objIndex
	indices []uint32
}

func newOBJMesh(name string) *objMesh {
	return &objMesh{
		name:   name,
		lookup: make(map[objIndex]uint32),
	}
}

// corner returns the unified index of c, adding a vertex the first time c is seen.
func (m *objMesh) corner(c objIndex) uint32 {
	if idx, ok := m.lookup[c]; ok {
		return idx
	}
	idx := uint32(len(m.corners))
	m.lookup[c] = idx
	m.corners = append(m.corners, c)
	return idx
}

type objParser struct {
	positions []math.Vec3
	colours   []math.Vec4
	hasColour []bool
	normals   []math.Vec3
	texcoords []math.Vec2

	meshes  []*objMesh
	current *objMesh
}

/**
 * @brief Parses an OBJ stream into a model.
 * Faces with more than three corners are split into a triangle fan. Every distinct
 * position/texcoord/normal combination becomes one vertex, so the result has a
 * single index stream. Each `o` or `g` statement starts a new sub-mesh.
 * Statements other than v, vt, vn, f, o and g are ignored.
 *
 * @param r The OBJ text.
 * @param name The model name; also the name of the first sub-mesh.
 */
func ParseOBJ(r io.Reader, name string) (*metadata.Model, error) {
	p := &objParser{current: newOBJMesh(name)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		var err error
		switch fields[0] {
		case "v":
			err = p.vertex(fields[1:])
		case "vt":
			err = p.texcoord(fields[1:])
		case "vn":
			err = p.normal(fields[1:])
		case "f":
			err = p.face(fields[1:])
		case "o", "g":
			p.group(strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		default:
			// mtllib, usemtl, s, l and friends carry nothing the pipeline uses.
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.flush()

	model := &metadata.Model{Name: name}
	for _, m := range p.meshes {
		model.Meshes = append(model.Meshes, p.build(m))
	}
	core.LogDebug("Parsed model '%s': %d positions, %d sub-meshes.", name, len(p.positions), len(model.Meshes))
	return model, nil
}

func parseFloats(fields []string, min, max int) ([]float32, error) {
	if len(fields) < min {
		return nil, fmt.Errorf("%w: expected at least %d values, got %d", core.ErrMalformedMesh, min, len(fields))
	}
	if len(fields) > max {
		fields = fields[:max]
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q", core.ErrMalformedMesh, f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (p *objParser) vertex(fields []string) error {
	// x y z [w] or x y z r g b
	v, err := parseFloats(fields, 3, 6)
	if err != nil {
		return err
	}
	p.positions = append(p.positions, math.NewVec3(v[0], v[1], v[2]))
	if len(v) == 6 {
		p.colours = append(p.colours, math.ClampColour(math.NewVec4(v[3], v[4], v[5], 1)))
		p.hasColour = append(p.hasColour, true)
	} else {
		p.colours = append(p.colours, math.Vec4{})
		p.hasColour = append(p.hasColour, false)
	}
	return nil
}

func (p *objParser) texcoord(fields []string) error {
	v, err := parseFloats(fields, 1, 2)
	if err != nil {
		return err
	}
	tc := math.NewVec2(v[0], 0)
	if len(v) > 1 {
		tc.Y = v[1]
	}
	p.texcoords = append(p.texcoords, tc)
	return nil
}

func (p *objParser) normal(fields []string) error {
	v, err := parseFloats(fields, 3, 3)
	if err != nil {
		return err
	}
	p.normals = append(p.normals, math.NewVec3(v[0], v[1], v[2]))
	return nil
}

// resolve turns a 1-based (or negative, relative) OBJ reference into a 0-based one.
func resolve(ref string, count int, what string) (int, error) {
	if ref == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return -1, fmt.Errorf("%w: invalid %s index %q", core.ErrMalformedMesh, what, ref)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return -1, fmt.Errorf("%w: %s index %d with %d defined", core.ErrIndexOutOfRange, what, i, count)
}

func (p *objParser) parseCorner(token string) (objIndex, error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 || parts[0] == "" {
		return objIndex{}, fmt.Errorf("%w: invalid face corner %q", core.ErrMalformedMesh, token)
	}
	c := objIndex{position: -1, texcoord: -1, normal: -1}
	var err error
	if c.position, err = resolve(parts[0], len(p.positions), "position"); err != nil {
		return c, err
	}
	if len(parts) > 1 {
		if c.texcoord, err = resolve(parts[1], len(p.texcoords), "texcoord"); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 {
		if c.normal, err = resolve(parts[2], len(p.normals), "normal"); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: face with %d corners", core.ErrMalformedMesh, len(fields))
	}
	corners := make([]uint32, len(fields))
	for i, token := range fields {
		c, err := p.parseCorner(token)
		if err != nil {
			return err
		}
		corners[i] = p.current.corner(c)
	}
	for i := 1; i+1 < len(corners); i++ {
		p.current.indices = append(p.current.indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

func (p *objParser) group(name string) {
	if len(p.current.indices) == 0 {
		// Nothing was drawn under the previous name yet.
		if name != "" {
			p.current.name = name
		}
		return
	}
	p.flush()
	p.current = newOBJMesh(name)
}

func (p *objParser) flush() {
	if p.current != nil && len(p.current.indices) > 0 {
		p.meshes = append(p.meshes, p.current)
	}
	p.current = nil
}

// build fills the per-vertex streams of a sub-mesh. A stream stays empty when no
// corner references it; corners missing an entry in a used stream get the
// pipeline default.
func (p *objParser) build(m *objMesh) *metadata.MeshData {
	var useNormals, useTexcoords, useColours bool
	for _, c := range m.corners {
		useNormals = useNormals || c.normal >= 0
		useTexcoords = useTexcoords || c.texcoord >= 0
		useColours = useColours || p.hasColour[c.position]
	}

	mesh := &metadata.MeshData{
		Name:      m.name,
		Positions: make([]math.Vec3, len(m.corners)),
		Indices:   m.indices,
	}
	if useNormals {
		mesh.Normals = make([]math.Vec3, len(m.corners))
	}
	if useTexcoords {
		mesh.TexCoords = make([]math.Vec2, len(m.corners))
	}
	if useColours {
		mesh.Colours = make([]math.Vec4, len(m.corners))
	}

	for i, c := range m.corners {
		mesh.Positions[i] = p.positions[c.position]
		if useNormals {
			mesh.Normals[i] = metadata.DefaultNormal
			if c.normal >= 0 {
				mesh.Normals[i] = p.normals[c.normal]
			}
		}
		if useTexcoords {
			mesh.TexCoords[i] = metadata.DefaultTexCoord
			if c.texcoord >= 0 {
				mesh.TexCoords[i] = p.texcoords[c.texcoord]
			}
		}
		if useColours {
			mesh.Colours[i] = metadata.DefaultColour
			if p.hasColour[c.position] {
				mesh.Colours[i] = p.colours[c.position]
			}
		}
	}
	return mesh
}
