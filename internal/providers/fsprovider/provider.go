// Package fsprovider exposes the virtual file tree as a tool provider so the
// action bus and every other collaborator mutate the same store the shell
// does.
package fsprovider

import (
	"fmt"

	"github.com/mirageos/backend/internal/shared/types"
	"github.com/mirageos/backend/internal/vfs"
)

// Provider implements the service.Provider surface over a vfs.Store.
type Provider struct {
	store *vfs.Store
}

// NewProvider creates a filesystem tool provider.
func NewProvider(store *vfs.Store) *Provider {
	return &Provider{store: store}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "fs",
		Name:        "Virtual Filesystem",
		Description: "CRUD, move/copy and reset operations on the virtual file tree",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"create",
			"delete",
			"rename",
			"move",
			"copy",
			"reset",
		},
		Tools: p.getTools(),
	}
}

func (p *Provider) getTools() []types.Tool {
	pathParam := func(name, desc string) types.Parameter {
		return types.Parameter{Name: name, Type: "string", Description: desc, Required: true}
	}

	return []types.Tool{
		{
			ID:          "fs.read",
			Name:        "Read File",
			Description: "Read file contents",
			Parameters:  []types.Parameter{pathParam("path", "File path")},
			Returns:     "string",
		},
		{
			ID:          "fs.write",
			Name:        "Write File",
			Description: "Replace the contents of an existing file",
			Parameters: []types.Parameter{
				pathParam("path", "File path"),
				{Name: "content", Type: "string", Description: "New content", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "fs.create_file",
			Name:        "Create File",
			Description: "Create a new file under a parent directory",
			Parameters: []types.Parameter{
				pathParam("parent_path", "Parent directory path"),
				{Name: "name", Type: "string", Description: "File name", Required: true},
				{Name: "content", Type: "string", Description: "Initial content", Required: false},
			},
			Returns: "boolean",
		},
		{
			ID:          "fs.create_directory",
			Name:        "Create Directory",
			Description: "Create a new directory under a parent directory",
			Parameters: []types.Parameter{
				pathParam("parent_path", "Parent directory path"),
				{Name: "name", Type: "string", Description: "Directory name", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "fs.delete",
			Name:        "Delete Node",
			Description: "Remove a file or directory subtree",
			Parameters:  []types.Parameter{pathParam("path", "Node path")},
			Returns:     "boolean",
		},
		{
			ID:          "fs.rename",
			Name:        "Rename Node",
			Description: "Rename a node in place, rewriting descendant paths",
			Parameters: []types.Parameter{
				pathParam("path", "Node path"),
				{Name: "new_name", Type: "string", Description: "New name", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "fs.move",
			Name:        "Move Node",
			Description: "Move a subtree under a new parent directory",
			Parameters: []types.Parameter{
				pathParam("source_path", "Node to move"),
				pathParam("new_parent_path", "Destination directory"),
			},
			Returns: "boolean",
		},
		{
			ID:          "fs.copy",
			Name:        "Copy Node",
			Description: "Deep-copy a subtree under a destination directory",
			Parameters: []types.Parameter{
				pathParam("source_path", "Node to copy"),
				pathParam("dest_parent_path", "Destination directory"),
			},
			Returns: "boolean",
		},
		{
			ID:          "fs.list",
			Name:        "List Directory",
			Description: "List a directory's children",
			Parameters:  []types.Parameter{pathParam("path", "Directory path")},
			Returns:     "array",
		},
		{
			ID:          "fs.status",
			Name:        "Filesystem Status",
			Description: "Report the corruption flag",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
		{
			ID:          "fs.reset",
			Name:        "Factory Reset",
			Description: "Replace the tree with the default layout",
			Parameters:  []types.Parameter{},
			Returns:     "boolean",
		},
	}
}

// Execute routes to the appropriate store operation.
func (p *Provider) Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	switch toolID {
	case "fs.read":
		return p.read(params)
	case "fs.write":
		return p.write(params)
	case "fs.create_file":
		return p.createFile(params)
	case "fs.create_directory":
		return p.createDirectory(params)
	case "fs.delete":
		return p.deleteNode(params)
	case "fs.rename":
		return p.rename(params)
	case "fs.move":
		return p.move(params)
	case "fs.copy":
		return p.copy(params)
	case "fs.list":
		return p.list(params)
	case "fs.status":
		return success(map[string]interface{}{"corrupted": p.store.Corrupted()})
	case "fs.reset":
		p.store.Reset()
		return success(map[string]interface{}{"reset": true})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	content, ok := p.store.ReadFile(path)
	if !ok {
		return failure(fmt.Sprintf("not a readable file: %s", path))
	}
	return success(map[string]interface{}{
		"path":    p.store.NormalizePath(path),
		"content": content,
		"size":    len(content),
	})
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	content, ok := params["content"].(string)
	if !ok {
		return failure("content parameter required")
	}

	if !p.store.WriteFile(path, content) {
		return failure(fmt.Sprintf("write rejected: %s", path))
	}
	return success(map[string]interface{}{"written": true, "path": p.store.NormalizePath(path)})
}

func (p *Provider) createFile(params map[string]interface{}) (*types.Result, error) {
	parent, ok := stringParam(params, "parent_path")
	if !ok {
		return failure("parent_path parameter required")
	}
	name, ok := stringParam(params, "name")
	if !ok {
		return failure("name parameter required")
	}
	content, _ := params["content"].(string)

	if !p.store.CreateFile(parent, name, content) {
		return failure(fmt.Sprintf("create failed: %s/%s", parent, name))
	}
	return success(map[string]interface{}{"created": true, "name": name})
}

func (p *Provider) createDirectory(params map[string]interface{}) (*types.Result, error) {
	parent, ok := stringParam(params, "parent_path")
	if !ok {
		return failure("parent_path parameter required")
	}
	name, ok := stringParam(params, "name")
	if !ok {
		return failure("name parameter required")
	}

	if !p.store.CreateDirectory(parent, name) {
		return failure(fmt.Sprintf("create failed: %s/%s", parent, name))
	}
	return success(map[string]interface{}{"created": true, "name": name})
}

func (p *Provider) deleteNode(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	if !p.store.DeleteNode(path) {
		return failure(fmt.Sprintf("delete rejected: %s", path))
	}
	return success(map[string]interface{}{"deleted": true})
}

func (p *Provider) rename(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	newName, ok := stringParam(params, "new_name")
	if !ok {
		return failure("new_name parameter required")
	}

	if !p.store.RenameNode(path, newName) {
		return failure(fmt.Sprintf("rename rejected: %s", path))
	}
	return success(map[string]interface{}{"renamed": true, "name": newName})
}

func (p *Provider) move(params map[string]interface{}) (*types.Result, error) {
	source, ok := stringParam(params, "source_path")
	if !ok {
		return failure("source_path parameter required")
	}
	dest, ok := stringParam(params, "new_parent_path")
	if !ok {
		return failure("new_parent_path parameter required")
	}

	if !p.store.MoveNode(source, dest) {
		return failure(fmt.Sprintf("move rejected: %s -> %s", source, dest))
	}
	return success(map[string]interface{}{"moved": true})
}

func (p *Provider) copy(params map[string]interface{}) (*types.Result, error) {
	source, ok := stringParam(params, "source_path")
	if !ok {
		return failure("source_path parameter required")
	}
	dest, ok := stringParam(params, "dest_parent_path")
	if !ok {
		return failure("dest_parent_path parameter required")
	}

	if !p.store.CopyNode(source, dest) {
		return failure(fmt.Sprintf("copy rejected: %s -> %s", source, dest))
	}
	return success(map[string]interface{}{"copied": true})
}

func (p *Provider) list(params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	dir, ok := p.store.GetDirectory(path)
	if !ok {
		return failure(fmt.Sprintf("not a directory: %s", path))
	}

	entries := make([]map[string]interface{}, 0, len(dir.Children))
	for _, name := range dir.ChildNames() {
		child := dir.Children[name]
		entries = append(entries, map[string]interface{}{
			"name":     child.Name,
			"path":     child.Path,
			"kind":     string(child.Kind),
			"size":     child.Size,
			"modified": child.Modified,
		})
	}
	return success(map[string]interface{}{"path": dir.Path, "entries": entries})
}

func stringParam(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key].(string)
	return val, ok && val != ""
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
