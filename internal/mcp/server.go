// Package mcp exposes the DD1750 generator as a Model Context Protocol
// server over stdio.
package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/packlab/dd1750/internal/bom"
	"github.com/packlab/dd1750/internal/config"
	"github.com/packlab/dd1750/internal/generate"
	"github.com/packlab/dd1750/internal/pdfdoc"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *generate.Service
	validator *pdfdoc.Validator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *generate.Service) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		validator: pdfdoc.NewValidator(cfg.MaxFileSize),
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	generateTool := mcp.NewTool(
		"dd1750_generate",
		mcp.WithDescription("Generate a filled DD1750 packing list PDF from a BOM PDF"),
		mcp.WithString("bom",
			mcp.Required(),
			mcp.Description("Full path to the BOM PDF (must contain extractable text)"),
		),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Full path to the blank DD1750 template PDF"),
		),
		mcp.WithString("out",
			mcp.Required(),
			mcp.Description("Output path for the filled DD1750 PDF"),
		),
		mcp.WithNumber("start_page",
			mcp.Description("0-based BOM page to start parsing at (default 0)"),
		),
		mcp.WithString("label",
			mcp.Description("Stock number label: 'NSN' or 'SN' (default NSN)"),
		),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)

	previewTool := mcp.NewTool(
		"dd1750_preview",
		mcp.WithDescription("Parse a BOM PDF and list the items a DD1750 would contain, without writing anything"),
		mcp.WithString("bom",
			mcp.Required(),
			mcp.Description("Full path to the BOM PDF"),
		),
		mcp.WithNumber("start_page",
			mcp.Description("0-based BOM page to start parsing at (default 0)"),
		),
	)
	s.mcpServer.AddTool(previewTool, s.handlePreview)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)
}

// Handler functions
func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bomPath, err := request.RequireString("bom")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	templatePath, err := request.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := request.RequireString("out")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := generate.GenerateRequest{
		BOMPath:      bomPath,
		TemplatePath: templatePath,
		OutputPath:   outputPath,
		StartPage:    intArg(request, "start_page", 0),
		StockLabel:   stringArg(request, "label", ""),
	}

	result, err := s.service.Generate(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Generated DD1750: %s\n", result.OutputPath)
	responseText += fmt.Sprintf("Items: %d\n", len(result.Items))
	responseText += fmt.Sprintf("Pages: %d\n", result.PageCount)
	responseText += "\n" + formatItems(result.Items)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bomPath, err := request.RequireString("bom")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := generate.PreviewRequest{
		BOMPath:   bomPath,
		StartPage: intArg(request, "start_page", 0),
	}

	result, err := s.service.Preview(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Parsed BOM: %s\n", bomPath)
	responseText += fmt.Sprintf("Items: %d\n", len(result.Items))
	responseText += fmt.Sprintf("Output pages needed: %d\n", result.PageCount)
	responseText += "\n" + formatItems(result.Items)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pages, err := s.validator.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable (%d pages)", path, pages)), nil
}

// Argument helpers
func stringArg(request mcp.CallToolRequest, key, fallback string) string {
	if v, ok := request.GetArguments()[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(request mcp.CallToolRequest, key string, fallback int) int {
	if v, ok := request.GetArguments()[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// formatItems renders the parsed item list for tool output.
func formatItems(items []bom.ItemRecord) string {
	if len(items) == 0 {
		return "No items.\n"
	}

	text := "Items:\n"
	for i, item := range items {
		text += fmt.Sprintf("%d. %s\n", i+1, item.Description)
		if item.StockNumber != "" {
			text += fmt.Sprintf("   Stock: %s\n", item.StockNumber)
		}
		text += fmt.Sprintf("   Quantity: %d\n", item.Quantity)
	}
	return text
}

// Run starts the MCP server on standard I/O.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting DD1750 MCP server in stdio mode")
		log.Printf("Configuration: %s", s.config)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
