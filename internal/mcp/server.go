// Package mcp exposes the dataset catalog and boot operations over the
// Model Context Protocol.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/ingest"
)

// Server wraps the MCP server with bootlog-specific functionality
type Server struct {
	server  *mcp.Server
	catalog *catalog.Catalog
}

// NewServer creates a new MCP server instance serving the datasets under
// root (empty for the configured default).
func NewServer(root string, log *logrus.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "bootlog",
		Version: "0.1.0",
	}, nil)

	s := &Server{
		server:  mcpServer,
		catalog: catalog.New(root, log),
	}

	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_list",
		Description: "List datasets visible to a user (shared plus personal)",
	}, s.handleDatasetList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_create",
		Description: "Create a new dataset",
	}, s.handleDatasetCreate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "boot_list",
		Description: "List a dataset's boots, newest first",
	}, s.handleBootList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "boot_ingest",
		Description: "Ingest a JSON event payload into a dataset as a new boot",
	}, s.handleBootIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "boot_get",
		Description: "Load a boot's events (latest boot if no id given)",
	}, s.handleBootGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "boot_set_metadata",
		Description: "Rewrite the system/event_id/tags metadata of a boot",
	}, s.handleBootSetMetadata)
}

// Input/Output types for each tool

type DatasetListInput struct {
	UserID *int64 `json:"userId,omitempty" jsonschema:"description=Include personal datasets of this user"`
}

type DatasetListOutput struct {
	Datasets []DatasetEntry `json:"datasets"`
}

type DatasetEntry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerUserID *int64 `json:"ownerUserId,omitempty"`
	LogCount    int64  `json:"logCount"`
	CreatedAt   string `json:"createdAt"`
}

type DatasetCreateInput struct {
	Name        string `json:"name" jsonschema:"required,description=Dataset name"`
	Description string `json:"description,omitempty" jsonschema:"description=Dataset description"`
	OwnerUserID *int64 `json:"ownerUserId,omitempty" jsonschema:"description=Owner user id for a personal dataset"`
}

type DatasetCreateOutput struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

type BootListInput struct {
	DatasetID int64 `json:"datasetId" jsonschema:"required,description=Dataset id"`
}

type BootListOutput struct {
	Boots []BootEntry `json:"boots"`
}

type BootEntry struct {
	BootID     string `json:"bootId"`
	CreatedAt  string `json:"createdAt"`
	EventCount int64  `json:"eventCount"`
}

type BootIngestInput struct {
	DatasetID int64  `json:"datasetId" jsonschema:"required,description=Dataset id"`
	Events    string `json:"events" jsonschema:"required,description=JSON payload: an array of events or an object with an events array"`
}

type BootIngestOutput struct {
	BootID     string `json:"bootId"`
	EventCount int    `json:"eventCount"`
}

type BootGetInput struct {
	DatasetID int64   `json:"datasetId" jsonschema:"required,description=Dataset id"`
	BootID    *string `json:"bootId,omitempty" jsonschema:"description=Boot id (latest if not specified)"`
}

type BootGetOutput struct {
	BootID string           `json:"bootId"`
	Start  string           `json:"start"`
	End    string           `json:"end"`
	Hours  float64          `json:"hours"`
	Events []map[string]any `json:"events"`
}

type BootSetMetadataInput struct {
	DatasetID int64    `json:"datasetId" jsonschema:"required,description=Dataset id"`
	BootID    string   `json:"bootId" jsonschema:"required,description=Boot id"`
	System    string   `json:"system,omitempty" jsonschema:"description=System name"`
	EventID   string   `json:"eventId,omitempty" jsonschema:"description=Classification tag"`
	Tags      []string `json:"tags,omitempty" jsonschema:"description=Tag list"`
}

type BootSetMetadataOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleDatasetList(ctx context.Context, req *mcp.CallToolRequest, input DatasetListInput) (*mcp.CallToolResult, DatasetListOutput, error) {
	datasets, err := s.catalog.List(ctx, input.UserID)
	if err != nil {
		return nil, DatasetListOutput{}, fmt.Errorf("failed to list datasets: %w", err)
	}

	out := DatasetListOutput{Datasets: make([]DatasetEntry, 0, len(datasets))}
	for _, ds := range datasets {
		out.Datasets = append(out.Datasets, DatasetEntry{
			ID:          ds.ID,
			Name:        ds.Name,
			Description: ds.Description,
			OwnerUserID: ds.OwnerUserID,
			LogCount:    ds.LogCount,
			CreatedAt:   ds.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return nil, out, nil
}

func (s *Server) handleDatasetCreate(ctx context.Context, req *mcp.CallToolRequest, input DatasetCreateInput) (*mcp.CallToolResult, DatasetCreateOutput, error) {
	existing, err := s.catalog.ResolveByName(ctx, input.Name, input.OwnerUserID)
	if err != nil {
		return nil, DatasetCreateOutput{}, err
	}
	if existing != nil {
		return nil, DatasetCreateOutput{}, fmt.Errorf("dataset already exists: %s", input.Name)
	}

	ds, err := s.catalog.Create(ctx, input.Name, input.Description, input.OwnerUserID)
	if err != nil {
		return nil, DatasetCreateOutput{}, fmt.Errorf("failed to create dataset: %w", err)
	}

	return nil, DatasetCreateOutput{ID: ds.ID, Path: ds.StorePath}, nil
}

func (s *Server) handleBootList(ctx context.Context, req *mcp.CallToolRequest, input BootListInput) (*mcp.CallToolResult, BootListOutput, error) {
	st, _, err := s.catalog.Open(ctx, input.DatasetID)
	if err != nil {
		return nil, BootListOutput{}, err
	}
	if st == nil {
		return nil, BootListOutput{}, fmt.Errorf("dataset not found: %d", input.DatasetID)
	}
	defer func() {
		_ = st.Close()
	}()

	boots, err := st.ListBoots(ctx)
	if err != nil {
		return nil, BootListOutput{}, fmt.Errorf("failed to list boots: %w", err)
	}

	out := BootListOutput{Boots: make([]BootEntry, 0, len(boots))}
	for _, b := range boots {
		out.Boots = append(out.Boots, BootEntry{
			BootID:     b.BootID,
			CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
			EventCount: b.EventCount,
		})
	}
	return nil, out, nil
}

func (s *Server) handleBootIngest(ctx context.Context, req *mcp.CallToolRequest, input BootIngestInput) (*mcp.CallToolResult, BootIngestOutput, error) {
	events, err := ingest.ParseEvents([]byte(input.Events))
	if err != nil {
		return nil, BootIngestOutput{}, err
	}
	if len(events) == 0 {
		return nil, BootIngestOutput{}, fmt.Errorf("payload contains no events")
	}

	st, _, err := s.catalog.Open(ctx, input.DatasetID)
	if err != nil {
		return nil, BootIngestOutput{}, err
	}
	if st == nil {
		return nil, BootIngestOutput{}, fmt.Errorf("dataset not found: %d", input.DatasetID)
	}
	defer func() {
		_ = st.Close()
	}()

	bootID, err := st.Ingest(ctx, events)
	if err != nil {
		return nil, BootIngestOutput{}, fmt.Errorf("failed to ingest events: %w", err)
	}

	return nil, BootIngestOutput{BootID: bootID, EventCount: len(events)}, nil
}

func (s *Server) handleBootGet(ctx context.Context, req *mcp.CallToolRequest, input BootGetInput) (*mcp.CallToolResult, BootGetOutput, error) {
	st, _, err := s.catalog.Open(ctx, input.DatasetID)
	if err != nil {
		return nil, BootGetOutput{}, err
	}
	if st == nil {
		return nil, BootGetOutput{}, fmt.Errorf("dataset not found: %d", input.DatasetID)
	}
	defer func() {
		_ = st.Close()
	}()

	bootID := ""
	if input.BootID != nil {
		bootID = *input.BootID
	}

	data, err := st.LoadBoot(ctx, bootID)
	if err != nil {
		return nil, BootGetOutput{}, fmt.Errorf("failed to load boot: %w", err)
	}
	if data == nil {
		return nil, BootGetOutput{}, fmt.Errorf("boot not found")
	}

	out := BootGetOutput{
		BootID: data.BootID,
		Start:  data.Start.Format("2006-01-02T15:04:05") + "Z",
		End:    data.End.Format("2006-01-02T15:04:05") + "Z",
		Hours:  data.Hours,
		Events: make([]map[string]any, 0, len(data.Events)),
	}
	for _, e := range data.Events {
		out.Events = append(out.Events, map[string]any{
			"row_id":   e.RowID,
			"name":     e.Name,
			"system":   e.System,
			"color":    e.Color,
			"utctime":  e.UTCTime,
			"event_id": e.EventID,
			"tags":     e.Tags,
		})
	}
	return nil, out, nil
}

func (s *Server) handleBootSetMetadata(ctx context.Context, req *mcp.CallToolRequest, input BootSetMetadataInput) (*mcp.CallToolResult, BootSetMetadataOutput, error) {
	st, _, err := s.catalog.Open(ctx, input.DatasetID)
	if err != nil {
		return nil, BootSetMetadataOutput{}, err
	}
	if st == nil {
		return nil, BootSetMetadataOutput{}, fmt.Errorf("dataset not found: %d", input.DatasetID)
	}
	defer func() {
		_ = st.Close()
	}()

	if err := st.SetBootMetadata(ctx, input.BootID, input.System, input.EventID, input.Tags); err != nil {
		return nil, BootSetMetadataOutput{}, fmt.Errorf("failed to update boot metadata: %w", err)
	}

	return nil, BootSetMetadataOutput{Message: "Boot metadata updated"}, nil
}
