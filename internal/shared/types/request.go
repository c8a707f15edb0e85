package types

// ShellRequest represents one raw command line
type ShellRequest struct {
	Command string `json:"command" binding:"required"`
}

// ExecuteRequest represents a service tool execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
	AppID  *string                `json:"app_id,omitempty"`
}

// AppAction is an in-app message targeting a running application.
type AppAction struct {
	AppID   string                 `json:"appId"`
	Action  string                 `json:"action"`
	Payload map[string]interface{} `json:"payload"`
}

// WSMessage represents one WebSocket frame in either direction.
type WSMessage struct {
	Type    string                 `json:"type"`
	Command string                 `json:"command,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
