// Package mcpserver exposes the tool catalogue and documentation resources
// over the Model Context Protocol, on stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flemzord/popmcp/internal/outcome"
	"github.com/flemzord/popmcp/internal/resources"
	"github.com/flemzord/popmcp/internal/schema"
	"github.com/flemzord/popmcp/internal/tool"
)

const instructions = `This server wraps the Pop CLI for Polkadot ink! smart contract and
parachain development. Typical contract workflow: check_pop_installation,
create_contract, build_contract, up_ink_node, deploy_contract, call_contract.
Failures carry the full CLI output; read it before retrying.`

// Server is the MCP transport over the dispatcher.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *tool.Dispatcher
	logger     *slog.Logger
}

// New builds the MCP server: one MCP tool per registered descriptor, plus the
// embedded documentation resources.
func New(version string, reg *tool.Registry, dispatcher *tool.Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp: server.NewMCPServer(
			"popmcp",
			version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, true),
			server.WithInstructions(instructions),
		),
		dispatcher: dispatcher,
		logger:     logger,
	}

	for _, desc := range reg.Descriptors() {
		s.mcp.AddTool(toMCPTool(desc), s.handler(desc.Name))
	}
	for _, doc := range resources.All() {
		s.addResource(doc)
	}

	return s
}

// ServeStdio blocks serving the stdio transport until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

// ServeHTTP blocks serving the streamable HTTP transport on addr.
func (s *Server) ServeHTTP(addr string) error {
	s.logger.Info("serving MCP over HTTP", "addr", addr)
	return server.NewStreamableHTTPServer(s.mcp).Start(addr)
}

// handler adapts one tool name onto the dispatcher.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out := s.dispatcher.Dispatch(ctx, name, req.GetArguments())
		return toResult(out), nil
	}
}

// toResult converts an outcome into an MCP tool result. Failures become
// IsError results with the kind tag leading; extracted fields ride along as a
// second text block.
func toResult(out outcome.Outcome) *mcp.CallToolResult {
	if out.IsError() {
		return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", out.Kind, out.Text))
	}

	contents := []mcp.Content{mcp.NewTextContent(out.Text)}
	if len(out.Structured) > 0 {
		keys := make([]string, 0, len(out.Structured))
		for k := range out.Structured {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, out.Structured[k])
		}
		contents = append(contents, mcp.NewTextContent(strings.TrimRight(b.String(), "\n")))
	}

	return &mcp.CallToolResult{Content: contents}
}

// toMCPTool converts a descriptor's parameter schema into the MCP tool shape.
func toMCPTool(desc tool.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	if desc.ReadOnly {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}

	for _, f := range desc.Schema.Fields {
		opts = append(opts, toMCPField(f))
	}

	return mcp.NewTool(desc.Name, opts...)
}

func toMCPField(f schema.Field) mcp.ToolOption {
	switch f.Type {
	case schema.TypeBool:
		opts := []mcp.PropertyOption{mcp.Description(f.Description)}
		if f.Required {
			opts = append(opts, mcp.Required())
		}
		if def, ok := f.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(def))
		}
		return mcp.WithBoolean(f.Name, opts...)

	case schema.TypeInt:
		opts := []mcp.PropertyOption{mcp.Description(f.Description)}
		if f.Required {
			opts = append(opts, mcp.Required())
		}
		if def, ok := f.Default.(int); ok {
			opts = append(opts, mcp.DefaultNumber(float64(def)))
		}
		return mcp.WithNumber(f.Name, opts...)

	case schema.TypeStringList:
		opts := []mcp.PropertyOption{
			mcp.Description(f.Description),
			mcp.Items(map[string]any{"type": "string"}),
		}
		if f.Required {
			opts = append(opts, mcp.Required())
		}
		return mcp.WithArray(f.Name, opts...)

	default:
		opts := []mcp.PropertyOption{mcp.Description(f.Description)}
		if f.Required {
			opts = append(opts, mcp.Required())
		}
		if len(f.Enum) > 0 {
			opts = append(opts, mcp.Enum(f.Enum...))
		}
		if def, ok := f.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(def))
		}
		return mcp.WithString(f.Name, opts...)
	}
}

// addResource registers one embedded document.
func (s *Server) addResource(doc resources.Doc) {
	res := mcp.NewResource(doc.URI, doc.Name,
		mcp.WithResourceDescription(doc.Description),
		mcp.WithMIMEType(doc.MIMEType),
	)
	s.mcp.AddResource(res, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		d, ok := resources.Read(req.Params.URI)
		if !ok {
			return nil, fmt.Errorf("unknown resource %q", req.Params.URI)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      d.URI,
				MIMEType: d.MIMEType,
				Text:     d.Text,
			},
		}, nil
	})
}
