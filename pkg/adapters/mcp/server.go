// Package mcp exposes a SUL to agents as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/nvimsul"
	"github.com/aretw0/nvimsul/internal/logging"
	"github.com/aretw0/nvimsul/pkg/classifier"
	"github.com/aretw0/nvimsul/pkg/domain"
)

// SUL is what the tools need from the adapter.
type SUL interface {
	Query(ctx context.Context, word domain.Word) (domain.Trace, error)
	Reset(ctx context.Context) error
	Status() domain.AdapterStatus
}

// QueryArgs are the arguments of the query tool. Either field may be used.
type QueryArgs struct {
	Word []string `mapstructure:"word"`
	Keys string   `mapstructure:"keys"`
}

// ClassifyArgs are the arguments of the classify tool.
type ClassifyArgs struct {
	Mode     string `mapstructure:"mode"`
	Blocking bool   `mapstructure:"blocking"`
}

// QueryResponse is the structured result of the query tool.
type QueryResponse struct {
	Word    []string `json:"word" jsonschema_description:"The symbols that were sent"`
	Outputs []string `json:"outputs" jsonschema_description:"Observed mode after reset and after each symbol"`
}

// ClassifyResponse is the structured result of the classify tool.
type ClassifyResponse struct {
	State string `json:"state" jsonschema_description:"Canonical mode label"`
}

// Server wraps a SUL and exposes it as an MCP Server.
type Server struct {
	sul       SUL
	alphabet  domain.Alphabet
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sul SUL, alphabet domain.Alphabet, opts ...Option) *Server {
	s := &Server{
		sul:       sul,
		alphabet:  alphabet,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("nvimsul-mcp", strings.TrimSpace(nvimsul.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx ends.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	queryTool := mcp.NewTool("query",
		mcp.WithDescription("Run one membership query on a fresh editor and return the observed modes. "+
			"The first output is the mode right after reset; every symbol adds one output."),
		mcp.WithArray("word", mcp.Description("Symbols to send, in order"), mcp.WithStringItems()),
		mcp.WithString("keys", mcp.Description(`Alternative to word: space separated symbols, e.g. ": <Esc> v"`)),
		mcp.WithOutputSchema[QueryResponse](),
	)
	s.mcpServer.AddTool(queryTool, mcp.NewStructuredToolHandler(s.HandleQuery))

	classifyTool := mcp.NewTool("classify",
		mcp.WithDescription("Map a raw nvim_get_mode() result to its canonical mode label."),
		mcp.WithString("mode", mcp.Required(), mcp.Description("Raw mode code, e.g. \"no\" or \"niI\"")),
		mcp.WithBoolean("blocking", mcp.Description("Whether the editor is waiting for input")),
		mcp.WithOutputSchema[ClassifyResponse](),
	)
	s.mcpServer.AddTool(classifyTool, mcp.NewStructuredToolHandler(s.HandleClassify))

	s.mcpServer.AddTool(mcp.NewTool("alphabet",
		mcp.WithDescription("List the input symbols the query tool accepts."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.alphabet.Strings())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Replace the editor with a fresh, configured instance."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.sul.Reset(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(s.sul.Status())), nil
	})
}

// HandleQuery runs the query tool.
func (s *Server) HandleQuery(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (QueryResponse, error) {
	var in QueryArgs
	if err := decode(args, &in); err != nil {
		return QueryResponse{}, err
	}
	keys := in.Word
	if len(keys) == 0 && strings.TrimSpace(in.Keys) != "" {
		keys = strings.Fields(in.Keys)
	}

	word := make(domain.Word, len(keys))
	for i, k := range keys {
		sym := domain.Symbol(k)
		if !s.alphabet.Contains(sym) {
			return QueryResponse{}, fmt.Errorf("%w: %q (see the alphabet tool)", domain.ErrUnknownSymbol, k)
		}
		word[i] = sym
	}

	trace, err := s.sul.Query(ctx, word)
	if err != nil {
		s.logger.Error("MCP query failed", "word", word.String(), "error", err)
		return QueryResponse{}, err
	}

	resp := QueryResponse{Word: keys, Outputs: make([]string, len(trace.Outputs))}
	if resp.Word == nil {
		resp.Word = []string{}
	}
	for i, o := range trace.Outputs {
		resp.Outputs[i] = string(o)
	}
	return resp, nil
}

// HandleClassify runs the classify tool.
func (s *Server) HandleClassify(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ClassifyResponse, error) {
	var in ClassifyArgs
	if err := decode(args, &in); err != nil {
		return ClassifyResponse{}, err
	}
	state, err := classifier.Classify(domain.RawMode{Mode: in.Mode, Blocking: in.Blocking})
	if err != nil {
		return ClassifyResponse{}, err
	}
	return ClassifyResponse{State: string(state)}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("nvimsul://modes", "Mode classifier table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(classifier.Table())
		if err != nil {
			return nil, fmt.Errorf("failed to encode table: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "nvimsul://modes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func decode(args map[string]interface{}, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return errors.Join(errors.New("invalid arguments"), err)
	}
	return nil
}
