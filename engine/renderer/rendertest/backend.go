// Package rendertest provides a RendererBackend that records every command
// instead of talking to a GPU. Tests use it to assert on call order and on
// the bytes that would have been uploaded.
package rendertest

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type Op int

const (
	OpBufferCreate Op = iota
	OpBufferDestroy
	OpBufferBind
	OpBufferUpload
	OpAttributePointer
	OpAttributeEnable
	OpAttributeDisable
	OpDrawIndexed
	OpProgramCreate
	OpProgramDestroy
	OpProgramUse
	OpUniform
)

func (o Op) String() string {
	switch o {
	case OpBufferCreate:
		return "BufferCreate"
	case OpBufferDestroy:
		return "BufferDestroy"
	case OpBufferBind:
		return "BufferBind"
	case OpBufferUpload:
		return "BufferUpload"
	case OpAttributePointer:
		return "AttributePointer"
	case OpAttributeEnable:
		return "AttributeEnable"
	case OpAttributeDisable:
		return "AttributeDisable"
	case OpDrawIndexed:
		return "DrawIndexed"
	case OpProgramCreate:
		return "ProgramCreate"
	case OpProgramDestroy:
		return "ProgramDestroy"
	case OpProgramUse:
		return "ProgramUse"
	case OpUniform:
		return "Uniform"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Command is one recorded backend call. Only the fields relevant to Op are set.
type Command struct {
	Op         Op
	Target     metadata.BufferTarget
	Buffer     metadata.BufferID
	Program    metadata.ProgramID
	Location   int32
	Components int32
	Stride     int32
	Offset     int
	Count      uint32
	// Enabled lists the attribute locations enabled when a draw was issued.
	Enabled []uint32
	// Bound holds the vertex and index buffers bound when a draw was issued.
	Bound [2]metadata.BufferID
}

// Program is what the backend knows about a "linked" program: the inputs its
// source declares.
type Program struct {
	ID         metadata.ProgramID
	Name       string
	Attributes map[string]int32
	Uniforms   map[string]int32
}

var (
	ErrOutOfMemory = errors.New("rendertest: out of memory")
	ErrNoBuffers   = errors.New("rendertest: draw without bound buffers")
)

// Backend records commands. The zero value is not usable; call New.
type Backend struct {
	Commands []Command

	// FailBufferCreateAfter makes BufferCreate fail once this many buffers were
	// created. Negative disables the failure.
	FailBufferCreateAfter int
	// FailDraw is returned by DrawIndexedTriangles when set.
	FailDraw error
	// Version is what LanguageVersion reports.
	Version string

	nextBuffer  metadata.BufferID
	nextProgram metadata.ProgramID
	created     int
	buffers     map[metadata.BufferID][]byte
	bound       [2]metadata.BufferID
	enabled     map[uint32]bool
	programs    map[metadata.ProgramID]*Program
	current     metadata.ProgramID
	uniforms    map[int32]interface{}
	frames      int
}

func New() *Backend {
	return &Backend{
		FailBufferCreateAfter: -1,
		Version:               "4.10",
		buffers:               make(map[metadata.BufferID][]byte),
		enabled:               make(map[uint32]bool),
		programs:              make(map[metadata.ProgramID]*Program),
		uniforms:              make(map[int32]interface{}),
	}
}

func (b *Backend) record(c Command) {
	b.Commands = append(b.Commands, c)
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	core.LogDebug("rendertest backend initialized for %s (%dx%d)", appName, appWidth, appHeight)
	return nil
}

func (b *Backend) Shutdown() error {
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	b.frames++
	return nil
}

func (b *Backend) BufferCreate() (metadata.BufferID, error) {
	if b.FailBufferCreateAfter >= 0 && b.created >= b.FailBufferCreateAfter {
		return 0, ErrOutOfMemory
	}
	b.created++
	b.nextBuffer++
	id := b.nextBuffer
	b.buffers[id] = nil
	b.record(Command{Op: OpBufferCreate, Buffer: id})
	return id, nil
}

func (b *Backend) BufferDestroy(id metadata.BufferID) {
	delete(b.buffers, id)
	for i := range b.bound {
		if b.bound[i] == id {
			b.bound[i] = 0
		}
	}
	b.record(Command{Op: OpBufferDestroy, Buffer: id})
}

func (b *Backend) BufferBind(target metadata.BufferTarget, id metadata.BufferID) {
	b.bound[target] = id
	b.record(Command{Op: OpBufferBind, Target: target, Buffer: id})
}

func (b *Backend) BufferUpload(target metadata.BufferTarget, data []byte) error {
	id := b.bound[target]
	if id == 0 {
		return fmt.Errorf("rendertest: upload to %s target with no buffer bound", target)
	}
	b.buffers[id] = append([]byte(nil), data...)
	b.record(Command{Op: OpBufferUpload, Target: target, Buffer: id, Count: uint32(len(data))})
	return nil
}

func (b *Backend) VertexAttributePointer(location uint32, components int32, stride int32, offset int) {
	b.record(Command{
		Op:         OpAttributePointer,
		Location:   int32(location),
		Components: components,
		Stride:     stride,
		Offset:     offset,
		Buffer:     b.bound[metadata.BufferTargetVertex],
	})
}

func (b *Backend) VertexAttributeEnable(location uint32) {
	b.enabled[location] = true
	b.record(Command{Op: OpAttributeEnable, Location: int32(location)})
}

func (b *Backend) VertexAttributeDisable(location uint32) {
	delete(b.enabled, location)
	b.record(Command{Op: OpAttributeDisable, Location: int32(location)})
}

func (b *Backend) DrawIndexedTriangles(indexCount uint32) error {
	c := Command{
		Op:      OpDrawIndexed,
		Count:   indexCount,
		Enabled: b.EnabledAttributes(),
		Bound:   b.bound,
	}
	b.record(c)
	if b.FailDraw != nil {
		return b.FailDraw
	}
	if b.bound[metadata.BufferTargetVertex] == 0 || b.bound[metadata.BufferTargetIndex] == 0 {
		return ErrNoBuffers
	}
	return nil
}

// ProgramCreate "links" source by scanning it for attribute and uniform
// declarations. A source containing "#error" fails to link with the rest of
// that line as the info log.
func (b *Backend) ProgramCreate(source metadata.ShaderSource) (metadata.ProgramID, error) {
	for _, src := range []string{source.Vertex, source.Fragment} {
		if i := strings.Index(src, "#error"); i >= 0 {
			msg := strings.TrimSpace(strings.SplitN(src[i+len("#error"):], "\n", 2)[0])
			return 0, fmt.Errorf("%w: %s", core.ErrShaderLink, msg)
		}
	}
	b.nextProgram++
	p := &Program{
		ID:         b.nextProgram,
		Name:       source.Name,
		Attributes: make(map[string]int32),
		Uniforms:   make(map[string]int32),
	}
	for _, name := range scanDeclarations(source.Vertex, "in", "attribute") {
		if _, ok := p.Attributes[name]; !ok {
			p.Attributes[name] = int32(len(p.Attributes))
		}
	}
	var uniformLoc int32
	for _, src := range []string{source.Vertex, source.Fragment} {
		for _, name := range scanDeclarations(src, "uniform") {
			if _, ok := p.Uniforms[name]; !ok {
				p.Uniforms[name] = uniformLoc
				uniformLoc++
			}
		}
	}
	b.programs[p.ID] = p
	b.record(Command{Op: OpProgramCreate, Program: p.ID})
	return p.ID, nil
}

func scanDeclarations(src string, qualifiers ...string) []string {
	var names []string
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(sc.Text()), ";"))
		if len(fields) < 3 {
			continue
		}
		for _, q := range qualifiers {
			if fields[0] == q {
				names = append(names, strings.TrimSuffix(fields[len(fields)-1], ";"))
			}
		}
	}
	return names
}

func (b *Backend) ProgramDestroy(program metadata.ProgramID) {
	delete(b.programs, program)
	if b.current == program {
		b.current = 0
	}
	b.record(Command{Op: OpProgramDestroy, Program: program})
}

func (b *Backend) ProgramUse(program metadata.ProgramID) {
	b.current = program
	b.record(Command{Op: OpProgramUse, Program: program})
}

func (b *Backend) AttributeLocation(program metadata.ProgramID, name string) int32 {
	p, ok := b.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.Attributes[name]; ok {
		return loc
	}
	return -1
}

func (b *Backend) UniformLocation(program metadata.ProgramID, name string) int32 {
	p, ok := b.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (b *Backend) LanguageVersion() string {
	return b.Version
}

func (b *Backend) UniformMatrix4(location int32, m mgl32.Mat4) {
	b.uniforms[location] = m
	b.record(Command{Op: OpUniform, Location: location, Program: b.current})
}

func (b *Backend) UniformFloat(location int32, v float32) {
	b.uniforms[location] = v
	b.record(Command{Op: OpUniform, Location: location, Program: b.current})
}

func (b *Backend) UniformVec4(location int32, v math.Vec4) {
	b.uniforms[location] = v
	b.record(Command{Op: OpUniform, Location: location, Program: b.current})
}

// Reset forgets recorded commands but keeps GPU-side state.
func (b *Backend) Reset() {
	b.Commands = nil
}

// Filter returns the recorded commands with the given op, in order.
func (b *Backend) Filter(op Op) []Command {
	var out []Command
	for _, c := range b.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many commands with the given op were recorded.
func (b *Backend) Count(op Op) int {
	return len(b.Filter(op))
}

// Ops returns the ops of every recorded command, in order.
func (b *Backend) Ops() []Op {
	out := make([]Op, len(b.Commands))
	for i, c := range b.Commands {
		out[i] = c.Op
	}
	return out
}

// BufferData returns the bytes last uploaded to the buffer.
func (b *Backend) BufferData(id metadata.BufferID) []byte {
	return b.buffers[id]
}

// LiveBuffers returns how many created buffers were not destroyed.
func (b *Backend) LiveBuffers() int {
	return len(b.buffers)
}

// LivePrograms returns how many created programs were not destroyed.
func (b *Backend) LivePrograms() int {
	return len(b.programs)
}

// Bound returns the buffer bound to target.
func (b *Backend) Bound(target metadata.BufferTarget) metadata.BufferID {
	return b.bound[target]
}

// CurrentProgram returns the program in use.
func (b *Backend) CurrentProgram() metadata.ProgramID {
	return b.current
}

// EnabledAttributes returns the enabled attribute locations, sorted.
func (b *Backend) EnabledAttributes() []uint32 {
	out := make([]uint32, 0, len(b.enabled))
	for loc := range b.enabled {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UniformValue returns the last value pushed to location.
func (b *Backend) UniformValue(location int32) interface{} {
	return b.uniforms[location]
}

// Program returns the program description, or nil.
func (b *Backend) Program(id metadata.ProgramID) *Program {
	return b.programs[id]
}
