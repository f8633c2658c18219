package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool defaults, matching the CLI.
const (
	defaultRetrieveResults = 5
	defaultListLimit       = 50
)

// StoreInput is the input schema for store_memory.
type StoreInput struct {
	Content   string `json:"content" jsonschema:"the text to remember (a key fact, user preference, decision, or summary)"`
	SessionID string `json:"session_id,omitempty" jsonschema:"optional identifier of the current session, used for grouping related memories"`
}

// StoreOutput is the output schema for store_memory.
type StoreOutput struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// RetrieveInput is the input schema for retrieve_memories.
type RetrieveInput struct {
	Query         string  `json:"query" jsonschema:"natural-language question or topic to search for"`
	NResults      int     `json:"n_results,omitempty" jsonschema:"maximum number of memories to return (default 5)"`
	MinImportance float64 `json:"min_importance,omitempty" jsonschema:"only return memories with an importance score at or above this value, 0.0-1.0 (default 0.0)"`
}

// RetrieveOutput is the output schema for retrieve_memories.
type RetrieveOutput struct {
	Results []MemoryResult `json:"results"`
	Count   int            `json:"count"`
}

// MemoryResult is a single retrieved memory.
type MemoryResult struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Similarity float64  `json:"similarity"`
	Combined   float64  `json:"combined"`
	Importance float64  `json:"importance"`
	SessionIDs []string `json:"session_ids,omitempty"`
	Timestamp  string   `json:"timestamp"`
}

// ListInput is the input schema for list_memories.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 50)"`
}

// ListOutput is the output schema for list_memories.
type ListOutput struct {
	Memories []MemoryEntry `json:"memories"`
	Count    int           `json:"count"`
}

// MemoryEntry is a stored memory as listed, without retrieval scores.
type MemoryEntry struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Importance float64  `json:"importance"`
	SessionIDs []string `json:"session_ids,omitempty"`
	Timestamp  string   `json:"timestamp"`
}

// DeleteInput is the input schema for delete_memory.
type DeleteInput struct {
	MemoryID string `json:"memory_id" jsonschema:"the ID of the memory to delete, as returned by store_memory or list_memories"`
}

// DeleteOutput is the output schema for delete_memory.
type DeleteOutput struct {
	Deleted string `json:"deleted"`
}

// CountInput is the (empty) input schema for count_memories.
type CountInput struct{}

// CountOutput is the output schema for count_memories.
type CountOutput struct {
	Count int `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "store_memory",
		Description: "Store an important piece of context for later retrieval. " +
			"Long texts are automatically split into chunks; near-duplicate " +
			"content is merged with the existing entry rather than stored twice.",
	}, s.handleStore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "retrieve_memories",
		Description: "Retrieve the most relevant memories for a natural-language " +
			"query. Results are re-ranked by a blend of semantic similarity (70%) " +
			"and information-density importance score (30%).",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_memories",
		Description: "List stored memories (no ranking applied).",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_memory",
		Description: "Delete a stored memory by its ID.",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_memories",
		Description: "Return the total number of memories currently stored.",
	}, s.handleCount)
}

func (s *Server) handleStore(ctx context.Context, _ *mcp.CallToolRequest, input StoreInput) (*mcp.CallToolResult, StoreOutput, error) {
	ids, err := s.svc.Store(ctx, input.Content, input.SessionID)
	if err != nil {
		return nil, StoreOutput{}, err
	}
	return nil, StoreOutput{IDs: ids, Count: len(ids)}, nil
}

func (s *Server) handleRetrieve(ctx context.Context, _ *mcp.CallToolRequest, input RetrieveInput) (*mcp.CallToolResult, RetrieveOutput, error) {
	n := input.NResults
	if n == 0 {
		n = defaultRetrieveResults
	}

	results, err := s.svc.Retrieve(ctx, input.Query, n, input.MinImportance)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]MemoryResult, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = MemoryResult{
			ID:         r.ID,
			Content:    r.Content,
			Similarity: r.Similarity,
			Combined:   r.Combined,
			Importance: r.Importance,
			SessionIDs: r.SessionIDs,
			Timestamp:  r.CreatedAt.Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func (s *Server) handleList(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	frags, err := s.svc.ListAll(ctx, limit)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Memories: make([]MemoryEntry, len(frags)),
		Count:    len(frags),
	}
	for i, f := range frags {
		output.Memories[i] = MemoryEntry{
			ID:         f.ID,
			Content:    f.Content,
			Importance: f.Importance,
			SessionIDs: f.SessionIDs,
			Timestamp:  f.CreatedAt.Format(time.RFC3339),
		}
	}
	return nil, output, nil
}

func (s *Server) handleDelete(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.svc.Delete(ctx, input.MemoryID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: input.MemoryID}, nil
}

func (s *Server) handleCount(ctx context.Context, _ *mcp.CallToolRequest, _ CountInput) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.svc.Count(ctx)
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Count: n}, nil
}
