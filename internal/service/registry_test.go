package service

import (
	"testing"

	"github.com/mirageos/backend/internal/shared/types"
)

type stubProvider struct {
	id       string
	executed string
}

func (s *stubProvider) Definition() types.Service {
	return types.Service{ID: s.id, Name: s.id, Category: types.CategorySystem}
}

func (s *stubProvider) Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	s.executed = toolID
	return &types.Result{Success: true}, nil
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &stubProvider{id: "stub"}

	if err := r.Register(p); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	got, ok := r.Get("stub")
	if !ok {
		t.Fatal("expected provider to be registered")
	}
	if got.Definition().ID != "stub" {
		t.Errorf("unexpected provider: %s", got.Definition().ID)
	}

	if err := r.Register(&stubProvider{id: ""}); err == nil {
		t.Error("empty service ID must be rejected")
	}
}

func TestExecuteRouting(t *testing.T) {
	r := NewRegistry()
	p := &stubProvider{id: "stub"}
	if err := r.Register(p); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := r.Execute("stub.do_thing", nil, nil)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if p.executed != "stub.do_thing" {
		t.Errorf("provider received %q", p.executed)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()

	if result, _ := r.Execute("malformed", nil, nil); result.Success {
		t.Error("malformed tool ID must fail")
	}
	if result, _ := r.Execute("ghost.tool", nil, nil); result.Success {
		t.Error("unknown service must fail")
	}
}

func TestList(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&stubProvider{id: "a"})
	_ = r.Register(&stubProvider{id: "b"})

	if got := len(r.List()); got != 2 {
		t.Errorf("expected 2 services, got %d", got)
	}
}
