// Package actions consumes the assistant's action bus: structured messages
// that mutate the tree store through the same CRUD surface the shell uses,
// or forward to out-of-process collaborators.
//
// Two message shapes arrive on the bus. An OS-level action:
//
//	{"action": "corrupt-filesystem"}
//
// and an in-app action:
//
//	{"appId": "file-explorer", "action": "createFile",
//	 "payload": {"parentPath": "/Documents", "fileName": "a.txt", "content": ""}}
package actions

import (
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/shared/types"
	"github.com/mirageos/backend/internal/vfs"
)

// Emitter forwards actions the store does not own (open-app, set-wallpaper,
// set-accent, restart) to the rendering/settings collaborators.
type Emitter interface {
	Emit(action string, fields map[string]interface{})
}

// NopEmitter discards forwarded actions.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(string, map[string]interface{}) {}

// Dispatcher routes decoded action messages.
type Dispatcher struct {
	store   *vfs.Store
	emitter Emitter
	logger  *logging.Logger
}

// NewDispatcher creates an action dispatcher. A nil emitter falls back to
// NopEmitter.
func NewDispatcher(store *vfs.Store, emitter Emitter, logger *logging.Logger) *Dispatcher {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &Dispatcher{store: store, emitter: emitter, logger: logger}
}

// Dispatch decodes one raw bus message and routes it. Messages carrying an
// "appId" field are in-app actions; everything else is OS-level.
func (d *Dispatcher) Dispatch(raw []byte) error {
	var msg types.AppAction
	if err := sonic.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("decode action: %w", err)
	}
	if msg.Action == "" {
		return fmt.Errorf("action field required")
	}

	if msg.AppID != "" {
		return d.dispatchApp(msg.AppID, msg.Action, msg.Payload)
	}

	var fields map[string]interface{}
	if err := sonic.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode action: %w", err)
	}
	return d.dispatchOS(msg.Action, fields)
}

// dispatchOS handles OS-level actions: open-app, set-wallpaper, set-accent
// and restart forward to collaborators; factory-reset and corrupt-filesystem
// hit the store directly.
func (d *Dispatcher) dispatchOS(action string, fields map[string]interface{}) error {
	d.logger.Info("os action", zap.String("action", action))

	switch action {
	case "factory-reset":
		d.store.Reset()
		return nil
	case "corrupt-filesystem":
		d.store.Corrupt()
		return nil
	case "open-app", "set-wallpaper", "set-accent", "restart":
		d.emitter.Emit(action, fields)
		return nil
	default:
		return fmt.Errorf("unknown os action: %s", action)
	}
}

// dispatchApp handles in-app actions. file-explorer's createFile maps 1:1
// onto the store's CreateFile; everything else forwards to the app layer.
func (d *Dispatcher) dispatchApp(appID, action string, payload map[string]interface{}) error {
	d.logger.Info("app action", zap.String("app_id", appID), zap.String("action", action))

	if appID == "file-explorer" && action == "createFile" {
		parentPath, _ := payload["parentPath"].(string)
		fileName, _ := payload["fileName"].(string)
		content, _ := payload["content"].(string)
		if parentPath == "" || fileName == "" {
			return fmt.Errorf("createFile requires parentPath and fileName")
		}
		if !d.store.CreateFile(parentPath, fileName, content) {
			return fmt.Errorf("createFile rejected: %s/%s", parentPath, fileName)
		}
		return nil
	}

	d.emitter.Emit(appID+":"+action, payload)
	return nil
}
