// Package mcp exposes the memory manager as Model Context Protocol
// tools, so an LLM client can persist and retrieve semantic memories
// across sessions and compactions.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/armcknight/cache-for-clankers/memory"
)

// Version is the MCP server version.
const Version = "0.1.0"

const instructions = "Long-term semantic memory. " +
	"Use store_memory at the end of important exchanges to save context " +
	"that should survive across sessions or compactions. " +
	"Use retrieve_memories at the start of a session or when you need to " +
	"recall relevant past context. Use list_memories to browse all stored " +
	"entries, delete_memory to remove one, and count_memories for the total."

// MemoryService is the slice of the memory manager the tools need.
// *memory.Manager implements it; tests substitute a fake.
type MemoryService interface {
	Store(ctx context.Context, text string, sessionID string) ([]string, error)
	Retrieve(ctx context.Context, query string, n int, minImportance float64) ([]memory.RankedResult, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context, limit int) ([]memory.Fragment, error)
	Count(ctx context.Context) (int, error)
}

// Server is the MCP server for the memory system.
type Server struct {
	svc    MemoryService
	server *mcp.Server
}

// NewServer creates an MCP server over the given memory service.
func NewServer(svc MemoryService) (*Server, error) {
	if svc == nil {
		return nil, errors.New("memory service is required")
	}

	impl := &mcp.Implementation{
		Name:    "cache-for-clankers",
		Version: Version,
	}

	s := &Server{
		svc:    svc,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio. It blocks until the context is
// cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
