// internal/websocket/types.go
package websocket

// 消息类型
const (
	KindRPCRequest  = "rpc_request"
	KindRPCResponse = "rpc_response"
	KindEvent       = "event"
)

// RPCRequest 表示从前端发来的 RPC 请求
type RPCRequest struct {
	ID     string        `json:"id"`     // 请求 ID，用于匹配响应
	Method string        `json:"method"` // 方法名，如 "SwitchFile"
	Params []interface{} `json:"params"` // 参数数组
}

// RPCResponse 表示返回给前端的 RPC 响应
type RPCResponse struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// WSEvent 表示后端主动推送的事件
type WSEvent struct {
	Type    string      `json:"type"` // 如 "session:changed"
	Payload interface{} `json:"payload"`
}

// WSMessage 是 WebSocket 消息的统一封装
type WSMessage struct {
	Kind     string       `json:"kind"`
	Request  *RPCRequest  `json:"request,omitempty"`
	Response *RPCResponse `json:"response,omitempty"`
	Event    *WSEvent     `json:"event,omitempty"`
}
