package core

import (
	"errors"
)

var (
	ErrIndexOutOfRange  = errors.New("mesh index out of range")
	ErrMalformedMesh    = errors.New("malformed mesh")
	ErrBufferAllocation = errors.New("gpu buffer allocation failed")
	ErrShaderLink       = errors.New("shader program failed to link")
	ErrNoShader         = errors.New("no shader program linked")
	ErrContextLost      = errors.New("rendering context lost")
	ErrUnknown          = errors.New("unknown")
)
