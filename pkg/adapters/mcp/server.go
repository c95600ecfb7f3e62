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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/umlweb"
	"github.com/aretw0/umlweb/pkg/domain"
	"github.com/aretw0/umlweb/pkg/report"
	"github.com/aretw0/umlweb/pkg/store"
	"github.com/aretw0/umlweb/pkg/xmlcodec"
)

// Resource URIs.
const (
	ProjectURI    = "umlweb://project"
	ProjectXMLURI = "umlweb://project.xml"
)

// Server exposes a project store as an MCP server.
type Server struct {
	store     *store.Store
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		store:  st,
		logger: logger,
		mcpServer: server.NewMCPServer("umlweb-mcp", strings.TrimSpace(umlweb.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
	}))
	r.Handle("/sse", sseServer.SSEHandler())
	r.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: r}
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

// AddActorArgs are the arguments of the add_actor tool.
type AddActorArgs struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddUseCaseArgs are the arguments of the add_use_case tool.
type AddUseCaseArgs struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConnectArgs are the arguments of the connect tool.
type ConnectArgs struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// AddPhraseArgs are the arguments of the add_phrase tool.
type AddPhraseArgs struct {
	UseCaseID string `json:"use_case_id"`
	Text      string `json:"text"`
}

// AddAlternativeFlowArgs are the arguments of the add_alternative_flow tool.
type AddAlternativeFlowArgs struct {
	UseCaseID      string `json:"use_case_id"`
	Name           string `json:"name"`
	Kind           string `json:"kind,omitempty"`
	ParentPhraseID string `json:"parent_phrase_id,omitempty"`
	ReturnPhraseID string `json:"return_phrase_id,omitempty"`
}

// ExportArgs are the arguments of the export_xml tool.
type ExportArgs struct {
	Compat bool `json:"compat,omitempty"`
}

// ImportArgs are the arguments of the import_xml tool.
type ImportArgs struct {
	XML string `json:"xml"`
}

// DescribeArgs are the arguments of the describe_use_case tool.
type DescribeArgs struct {
	UseCaseID string `json:"use_case_id"`
}

// CreatedResult reports the id of a new entity.
type CreatedResult struct {
	ID string `json:"id" jsonschema_description:"Id of the created entity"`
}

// ConnectResult reports whether a canvas connection became a link.
type ConnectResult struct {
	Connected bool `json:"connected" jsonschema_description:"True when an actor to use case link was created"`
}

// ImportResult summarizes an imported project.
type ImportResult struct {
	Actors   int `json:"actors"`
	UseCases int `json:"use_cases"`
	Links    int `json:"links"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get the whole project (actors, use cases, links, associations, positions) as JSON."),
	), s.handleGetProject)

	s.mcpServer.AddTool(mcp.NewTool("export_xml",
		mcp.WithDescription("Export the project as an XML document."),
		mcp.WithBoolean("compat", mcp.Description("Omit the extension layer (actors, links, associations, layout)")),
	), mcp.NewTypedToolHandler(s.handleExport))

	s.mcpServer.AddTool(mcp.NewTool("import_xml",
		mcp.WithDescription("Replace the project with the content of an XML document."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The XML document")),
		mcp.WithOutputSchema[ImportResult](),
	), mcp.NewStructuredToolHandler(s.handleImport))

	s.mcpServer.AddTool(mcp.NewTool("add_actor",
		mcp.WithDescription("Add an actor to the project."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Actor name")),
		mcp.WithString("icon", mcp.Enum(string(domain.ActorIconPerson), string(domain.ActorIconSystem)), mcp.Description("How the actor is drawn")),
		mcp.WithString("description", mcp.Description("Free text")),
		mcp.WithOutputSchema[CreatedResult](),
	), mcp.NewStructuredToolHandler(s.handleAddActor))

	s.mcpServer.AddTool(mcp.NewTool("add_use_case",
		mcp.WithDescription("Add a use case to the project."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Use case name")),
		mcp.WithString("description", mcp.Description("Free text")),
		mcp.WithOutputSchema[CreatedResult](),
	), mcp.NewStructuredToolHandler(s.handleAddUseCase))

	s.mcpServer.AddTool(mcp.NewTool("connect",
		mcp.WithDescription("Connect two diagram nodes. Only actor to use case connections create a link."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Actor id")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Use case id")),
		mcp.WithOutputSchema[ConnectResult](),
	), mcp.NewStructuredToolHandler(s.handleConnect))

	s.mcpServer.AddTool(mcp.NewTool("add_phrase",
		mcp.WithDescription("Append a step to the main flow of a use case."),
		mcp.WithString("use_case_id", mcp.Required(), mcp.Description("Use case id")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Step text")),
		mcp.WithOutputSchema[CreatedResult](),
	), mcp.NewStructuredToolHandler(s.handleAddPhrase))

	s.mcpServer.AddTool(mcp.NewTool("add_alternative_flow",
		mcp.WithDescription("Add an alternative or exception flow branching from a main flow step."),
		mcp.WithString("use_case_id", mcp.Required(), mcp.Description("Use case id")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Flow name")),
		mcp.WithString("kind", mcp.Enum(string(domain.FlowKindAlternative), string(domain.FlowKindException))),
		mcp.WithString("parent_phrase_id", mcp.Description("Step that triggers the flow")),
		mcp.WithString("return_phrase_id", mcp.Description("Step the flow returns to; empty ends the use case")),
		mcp.WithOutputSchema[CreatedResult](),
	), mcp.NewStructuredToolHandler(s.handleAddAlternativeFlow))

	s.mcpServer.AddTool(mcp.NewTool("describe_use_case",
		mcp.WithDescription("Render the scenario of a use case as Markdown."),
		mcp.WithString("use_case_id", mcp.Required(), mcp.Description("Use case id")),
	), mcp.NewTypedToolHandler(s.handleDescribe))
}

func (s *Server) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest, args ExportArgs) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(xmlcodec.Export(s.store.Snapshot(), xmlcodec.Options{CompatOnly: args.Compat})), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args DescribeArgs) (*mcp.CallToolResult, error) {
	md, ok := report.UseCase(s.store.Snapshot(), args.UseCaseID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("use case %q not found", args.UseCaseID)), nil
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) handleImport(ctx context.Context, request mcp.CallToolRequest, args ImportArgs) (ImportResult, error) {
	snap, err := xmlcodec.Import(args.XML)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import failed: %w", err)
	}
	if err := s.store.LoadProject(ctx, *snap); err != nil {
		s.logger.Error("MCP import: save failed", "err", err)
		return ImportResult{}, err
	}
	return ImportResult{
		Actors:   len(snap.Actors),
		UseCases: len(snap.UseCases),
		Links:    len(snap.ActorUseCaseLinks),
	}, nil
}

func (s *Server) handleAddActor(ctx context.Context, request mcp.CallToolRequest, args AddActorArgs) (CreatedResult, error) {
	if strings.TrimSpace(args.Name) == "" {
		return CreatedResult{}, errors.New("name is required")
	}
	id, err := s.store.AddActor(ctx, domain.Actor{
		Name:        args.Name,
		Description: args.Description,
		Icon:        domain.NormalizeActorIcon(args.Icon),
	})
	return CreatedResult{ID: id}, err
}

func (s *Server) handleAddUseCase(ctx context.Context, request mcp.CallToolRequest, args AddUseCaseArgs) (CreatedResult, error) {
	if strings.TrimSpace(args.Name) == "" {
		return CreatedResult{}, errors.New("name is required")
	}
	id, err := s.store.AddUseCase(ctx, domain.UseCase{
		Name:             args.Name,
		Description:      args.Description,
		Phrases:          domain.Phrases{},
		AlternativeFlows: []domain.AlternativeFlow{},
	})
	return CreatedResult{ID: id}, err
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest, args ConnectArgs) (ConnectResult, error) {
	ok, err := s.store.Connect(ctx, args.SourceID, args.TargetID)
	return ConnectResult{Connected: ok}, err
}

func (s *Server) handleAddPhrase(ctx context.Context, request mcp.CallToolRequest, args AddPhraseArgs) (CreatedResult, error) {
	id, err := s.store.AddUseCasePhrase(ctx, args.UseCaseID, args.Text)
	if err != nil {
		return CreatedResult{}, err
	}
	if id == "" {
		return CreatedResult{}, fmt.Errorf("use case %q not found", args.UseCaseID)
	}
	return CreatedResult{ID: id}, nil
}

func (s *Server) handleAddAlternativeFlow(ctx context.Context, request mcp.CallToolRequest, args AddAlternativeFlowArgs) (CreatedResult, error) {
	id, err := s.store.AddAlternativeFlow(ctx, args.UseCaseID, args.Name,
		domain.NormalizeFlowKind(args.Kind), args.ParentPhraseID, args.ReturnPhraseID)
	if err != nil {
		return CreatedResult{}, err
	}
	if id == "" {
		return CreatedResult{}, fmt.Errorf("use case %q or step %q not found", args.UseCaseID, args.ParentPhraseID)
	}
	return CreatedResult{ID: id}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ProjectURI, "Current project",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.store.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode project: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: ProjectURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(ProjectXMLURI, "Current project as XML",
		mcp.WithMIMEType("application/xml"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: ProjectXMLURI, MIMEType: "application/xml", Text: xmlcodec.Export(s.store.Snapshot(), xmlcodec.Options{})},
		}, nil
	})
}
