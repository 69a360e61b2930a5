// Package mcp exposes the catalog to MCP clients over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes catalog browsing tools.
type Server struct {
	src     navigator.Source
	index   *search.Index
	baseURL string
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server. index may be nil, in which case the
// search_resources tool is not registered.
func NewServer(src navigator.Source, index *search.Index, baseURL string) *Server {
	s := &Server{
		src:     src,
		index:   index,
		baseURL: baseURL,
	}

	s.mcp = server.NewMCPServer(
		"studyhub",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listCoursesTool, s.handleListCourses)
	s.mcp.AddTool(listChildrenTool, s.handleListChildren)
	s.mcp.AddTool(findResourcesTool, s.handleFindResources)
	s.mcp.AddTool(shareLinkTool, s.handleShareLink)
	if s.index != nil {
		s.mcp.AddTool(searchResourcesTool, s.handleSearchResources)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
