/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/types"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// errorCode maps engine errors onto the wire error codes.
func errorCode(err error) string {
	switch {
	case task.IsNotFound(err):
		return types.CodeNotFound
	case task.IsInvalidState(err):
		return types.CodeInvalidState
	case task.IsInvalidEdit(err):
		return types.CodeInvalidEdit
	case errors.Is(err, task.ErrStorage):
		return types.CodeStorageFailure
	default:
		return types.CodeInternal
	}
}

func errorResult(err error) *mcpsdk.CallToolResultFor[types.ToolResult] {
	return mcpErrorResponse(types.NewMCPError(errorCode(err), err.Error(), nil))
}

func validationErrorResult(err error) *mcpsdk.CallToolResultFor[types.ToolResult] {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return mcpErrorResponse(types.NewMCPError(types.CodeInvalidInput, err.Error(), nil))
	}
	fields := make(map[string]interface{}, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
		msgs = append(msgs, fmt.Sprintf("%s failed rule '%s'", fe.Namespace(), fe.Tag()))
	}
	return mcpErrorResponse(types.NewMCPError(types.CodeInvalidInput, strings.Join(msgs, "; "), fields))
}

// mcpErrorResponse reports a tool failure as an error result rather than a
// protocol error, so the client model can read and react to it.
func mcpErrorResponse(e *types.MCPError) *mcpsdk.CallToolResultFor[types.ToolResult] {
	text, err := json.Marshal(e)
	if err != nil {
		text = []byte(e.Error())
	}
	return &mcpsdk.CallToolResultFor[types.ToolResult]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(text)}},
		IsError: true,
	}
}
