package tool

import "errors"

var (
	// ErrUnknownTool is returned when no descriptor matches the requested name.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrEmptyToolName is returned when a descriptor has no name.
	ErrEmptyToolName = errors.New("tool name must not be empty")

	// ErrDuplicateTool is returned when registering a descriptor whose name
	// already exists in the registry.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrNoPipeline is returned when a descriptor declares neither a command
	// builder nor a handler.
	ErrNoPipeline = errors.New("tool must declare a builder or a handler")
)
