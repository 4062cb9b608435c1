package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fuabioo/gridq/internal/cache"
	"github.com/fuabioo/gridq/internal/constants"
	"github.com/fuabioo/gridq/internal/dataset"
	"github.com/fuabioo/gridq/internal/env"
	"github.com/fuabioo/gridq/internal/format"
	"github.com/fuabioo/gridq/internal/grid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server
type Server struct {
	mcpServer *server.MCPServer
	host      env.HostEnvironment
	logger    *slog.Logger
	datasets  *cache.LRU[string, *dataset.Dataset]
}

// New creates a new MCP server with all tools registered. host is the
// environment used when a tool call does not name a page URL.
func New(host env.HostEnvironment, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := server.NewMCPServer(
		"gridq",
		constants.VersionNumber,
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		host:      host,
		logger:    logger,
		datasets:  cache.New[string, *dataset.Dataset](DatasetCacheSize),
	}
	srv.registerTools()

	return srv
}

// Run starts the MCP server on stdio
func (s *Server) Run() error {
	s.logger.Info("mcp.server.start", "domain_url", s.host.DomainURL)
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("resolve_environment",
		mcp.WithDescription("Detect the hosting context (builder, Lightning, site) of a page URL and the base URL for record links"),
		mcp.WithString("url", mcp.Description("Full page URL (default: the server's configured page)")),
	), s.handleResolveEnvironment)

	s.mcpServer.AddTool(mcp.NewTool("constants",
		mcp.WithDescription("Get the grid constants record for a page URL"),
		mcp.WithString("url", mcp.Description("Full page URL (default: the server's configured page)")),
	), s.handleConstants)

	s.mcpServer.AddTool(mcp.NewTool("convert_column",
		mcp.WithDescription("Map a column data type to its input widget type and input format"),
		mcp.WithString("type", mcp.Required(), mcp.Description("Column data type (e.g., currency, phone, datetime)")),
	), s.handleConvertColumn)

	s.mcpServer.AddTool(mcp.NewTool("column_value",
		mcp.WithDescription("Extract the value part of a column attribute (text after the first colon)"),
		mcp.WithString("attrib", mcp.Required(), mcp.Description("Column attribute, e.g. label:Account Name")),
	), s.handleColumnValue)

	s.mcpServer.AddTool(mcp.NewTool("remove_spaces",
		mcp.WithDescription("Remove single spaces next to , : { } and ; characters"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to clean")),
	), s.handleRemoveSpaces)

	s.mcpServer.AddTool(mcp.NewTool("convert_time",
		mcp.WithDescription("Render a date-time value as an HH:MM:SS.mmmZ time value"),
		mcp.WithString("value", mcp.Required(), mcp.Description("RFC 3339 date-time, YYYY-MM-DD or epoch milliseconds")),
		mcp.WithNumber("timezoneOffset", mcp.Description("User timezone offset (default: 0)")),
		mcp.WithString("timezone", mcp.Description("IANA zone the hours are read in (default: UTC)")),
	), s.handleConvertTime)

	s.mcpServer.AddTools(s.rowTools()...)
}

// rowTools defines find_row, remove_row and replace_row. Rows come inline
// as arrays of objects or from a file.
func (s *Server) rowTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("find_row", rowToolOptions(
				"Find the index of the first row whose key field equals id. Rows come from 'rows' (array of objects) or 'file' (xlsx, json, yaml)",
				"",
			)...),
			Handler: s.handleFindRow,
		},
		{
			Tool: mcp.NewTool("remove_row", rowToolOptions(
				"Remove the first row whose key field equals id and return the remaining rows",
				"",
			)...),
			Handler: s.handleRemoveRow,
		},
		{
			Tool: mcp.NewTool("replace_row", append(rowToolOptions(
				"Replace the row matching id with the matching row from the updated rows, keeping its position",
				"original ",
			),
				mcp.WithArray("updated_rows",
					mcp.Description("Updated rows as an array of objects (or use updated_file)"),
					mcp.Items(map[string]any{"type": "object"}),
				),
				mcp.WithString("updated_file", mcp.Description("Path to the updated rows file")),
				mcp.WithString("updated_sheet", mcp.Description("Sheet name for the updated xlsx file")),
			)...),
			Handler: s.handleReplaceRow,
		},
	}
}

func rowToolOptions(description, rowsLabel string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("key_field", mcp.Required(), mcp.Description("Field that identifies a row")),
		withRowID(),
		mcp.WithString("id_type", mcp.Description("Convert a string id to: string, number or bool")),
		mcp.WithArray("rows",
			mcp.Description("The "+rowsLabel+"rows as an array of objects (or use file)"),
			mcp.Items(map[string]any{"type": "object"}),
		),
		mcp.WithString("file", mcp.Description("Path to the "+rowsLabel+"rows file (xlsx, json or yaml)")),
		mcp.WithString("sheet", mcp.Description("Sheet name for xlsx files (default: first sheet)")),
	}
}

// withRowID declares the required id argument: a string, number or boolean
func withRowID() mcp.ToolOption {
	return func(t *mcp.Tool) {
		if t.InputSchema.Properties == nil {
			t.InputSchema.Properties = map[string]any{}
		}
		t.InputSchema.Properties["id"] = map[string]any{
			"type":        []string{"string", "number", "boolean"},
			"description": "Key value of the row, compared by type and value (see id_type)",
		}
		t.InputSchema.Required = append(t.InputSchema.Required, "id")
	}
}

// rowArgs are the arguments shared by the row tools
type rowArgs struct {
	KeyField     string           `json:"key_field"`
	ID           json.RawMessage  `json:"id"`
	IDType       string           `json:"id_type"`
	Rows         []map[string]any `json:"rows"`
	File         string           `json:"file"`
	Sheet        string           `json:"sheet"`
	UpdatedRows  []map[string]any `json:"updated_rows"`
	UpdatedFile  string           `json:"updated_file"`
	UpdatedSheet string           `json:"updated_sheet"`
}

func (a rowArgs) id() (any, error) {
	if len(a.ID) == 0 {
		return nil, fmt.Errorf("id is required")
	}
	var id any
	if err := json.Unmarshal(a.ID, &id); err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	if raw, ok := id.(string); ok && a.IDType != "" {
		return dataset.ParseID(raw, a.IDType)
	}
	return grid.Normalize(id), nil
}

// Tool handlers

func (s *Server) handleResolveEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, err := s.hostFor(request.GetString("url", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(host)
}

func (s *Server) handleConstants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, err := s.hostFor(request.GetString("url", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(constants.New(host).Map())
}

func (s *Server) handleConvertColumn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	columnType := request.GetString("type", "")
	result := map[string]any{
		"type":      columnType,
		"inputType": format.ConvertType(columnType),
		"format":    nil,
	}
	if f, ok := format.ConvertFormat(columnType); ok {
		result["format"] = f
	}
	return jsonResult(result)
}

func (s *Server) handleColumnValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]string{
		"value": format.ColumnValue(request.GetString("attrib", "")),
	})
}

func (s *Server) handleRemoveSpaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]string{
		"text": format.RemoveSpaces(request.GetString("text", "")),
	})
}

func (s *Server) handleConvertTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	zone := request.GetString("timezone", "UTC")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown timezone %q: %v", zone, err)), nil
	}

	t, err := format.ParseDateTime(request.GetString("value", ""), loc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	table := grid.Table{TimezoneOffset: request.GetFloat("timezoneOffset", 0)}
	return jsonResult(map[string]string{"time": table.ConvertTime(t)})
}

func (s *Server) handleFindRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, id, err := bindRowArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := s.collection(args.Rows, args.File, args.Sheet)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	table := grid.Table{KeyField: args.KeyField}
	idx := table.FindRowIndexByID(ds.Rows, id)

	result := map[string]any{"index": idx, "row": nil}
	if idx != grid.NotFound {
		result["row"] = ds.Rows[idx]
	}
	return jsonResult(result)
}

func (s *Server) handleRemoveRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, id, err := bindRowArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := s.collection(args.Rows, args.File, args.Sheet)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	table := grid.Table{KeyField: args.KeyField}
	rows := table.RemoveRowFromCollection(ds.Rows, id)

	return jsonResultWithMetadata(rows, len(rows), len(rows) != len(ds.Rows))
}

func (s *Server) handleReplaceRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, id, err := bindRowArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	original, err := s.collection(args.Rows, args.File, args.Sheet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("original rows: %v", err)), nil
	}
	updated, err := s.collection(args.UpdatedRows, args.UpdatedFile, args.UpdatedSheet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updated rows: %v", err)), nil
	}

	table := grid.Table{KeyField: args.KeyField}
	replaced := table.FindRowIndexByID(original.Rows, id) != grid.NotFound &&
		table.FindRowIndexByID(updated.Rows, id) != grid.NotFound
	rows := table.ReplaceRowInCollection(original.Rows, updated.Rows, id)

	return jsonResultWithMetadata(rows, len(rows), replaced)
}

// hostFor resolves rawURL, falling back to the server's environment
func (s *Server) hostFor(rawURL string) (env.HostEnvironment, error) {
	if rawURL == "" {
		return s.host, nil
	}
	return env.FromURL(rawURL, s.logger)
}

func bindRowArgs(request mcp.CallToolRequest) (rowArgs, any, error) {
	var args rowArgs
	if err := request.BindArguments(&args); err != nil {
		return args, nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if args.KeyField == "" {
		return args, nil, fmt.Errorf("key_field is required")
	}
	id, err := args.id()
	if err != nil {
		return args, nil, err
	}
	return args, id, nil
}

// collection returns inline rows, or the rows of a validated file.
// File contents are cached until the file changes.
func (s *Server) collection(rows []map[string]any, file, sheet string) (*dataset.Dataset, error) {
	if file == "" {
		if rows == nil {
			return nil, fmt.Errorf("either rows or file is required")
		}
		if len(rows) > MaxInlineRows {
			return nil, fmt.Errorf("%w: %d rows exceeds limit of %d", dataset.ErrTooManyRows, len(rows), MaxInlineRows)
		}
		c := make(grid.Collection, len(rows))
		for i, r := range rows {
			c[i] = grid.NormalizeRow(r)
		}
		return dataset.New(c), nil
	}

	validPath, err := ValidateFilePath(file)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(validPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", validPath, err)
	}

	key := fmt.Sprintf("%s|%s|%d", validPath, sheet, info.ModTime().UnixNano())
	if ds, ok := s.datasets.Get(key); ok {
		s.logger.Debug("mcp.dataset.cache_hit", "path", validPath, "sheet", sheet)
		return ds, nil
	}

	ds, err := dataset.Load(validPath, sheet)
	if err != nil {
		return nil, err
	}
	s.datasets.Set(key, ds)
	s.logger.Debug("mcp.dataset.loaded", "path", validPath, "sheet", ds.Sheet, "rows", len(ds.Rows))
	return ds, nil
}

// Helper functions

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("JSON encoding error: %v", err)), nil
	}

	if len(data) > MaxOutputBytes {
		return mcp.NewToolResultError(fmt.Sprintf("Output too large (%d bytes, max %d bytes)", len(data), MaxOutputBytes)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func jsonResultWithMetadata(rows grid.Collection, count int, changed bool) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"data": rows,
		"metadata": map[string]any{
			"rows_returned": count,
			"changed":       changed,
		},
	})
}
