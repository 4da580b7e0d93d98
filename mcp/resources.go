/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/josephgoksu/taskpilot/internal/task"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcpsdk.Server, svc *task.Service) {
	server.AddResource(&mcpsdk.Resource{
		URI:         RequestsResourceURI,
		Name:        "requests",
		Description: "Every request with its tasks, as stored",
		MIMEType:    "application/json",
	}, requestsResource(svc))
}

func requestsResource(svc *task.Service) mcpsdk.ResourceHandler {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.ReadResourceParams) (*mcpsdk.ReadResourceResult, error) {
		requests, err := svc.Requests(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load requests: %w", err)
		}
		data, err := json.MarshalIndent(map[string]any{"requests": requests}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal requests: %w", err)
		}
		return &mcpsdk.ReadResourceResult{
			Contents: []*mcpsdk.ResourceContents{{
				URI:      params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
