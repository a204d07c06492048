package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for bmap resources.
	uriScheme = "bmap://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "maps",
		Name:        "maps",
		Description: "List of all catalogued genetic maps",
		MIMEType:    "application/json",
	}, s.handleMapsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "maps/{mapId}",
		Name:        "map",
		Description: "A genetic map and its database group",
		MIMEType:    "application/json",
	}, s.handleMapResource)
}

// handleMapsResource returns the map catalog.
func (s *Server) handleMapsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, out, err := s.handleListMaps(ctx, nil, MapsInput{})
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, out.Maps)
}

// handleMapResource returns one map.
func (s *Server) handleMapResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractMapID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, out, err := s.handleDescribeMap(ctx, nil, DescribeInput{ID: id})
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractMapID extracts the map ID from a URI like bmap://maps/{mapId}.
func extractMapID(uri string) string {
	const prefix = uriScheme + "maps/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
