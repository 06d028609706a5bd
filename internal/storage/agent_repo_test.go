package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *testDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &testDB{
		agents:        NewAgentRepo(db),
		conversations: NewConversationRepo(db),
	}
}

type testDB struct {
	agents        *AgentRepo
	conversations *ConversationRepo
}

func TestAgentRepo_CreateAndGet(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	agent, err := repos.agents.Create(ctx, "boiler-tech", "Boiler manuals", "agent_boiler_tech")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if agent.ID == "" {
		t.Error("Create() returned agent with empty ID")
	}
	if agent.Name != "boiler-tech" {
		t.Errorf("Name = %q, want %q", agent.Name, "boiler-tech")
	}
	if agent.TotalChunks != 0 {
		t.Errorf("TotalChunks = %d, want 0", agent.TotalChunks)
	}
	if len(agent.Files) != 0 {
		t.Errorf("Files = %v, want empty", agent.Files)
	}

	got, err := repos.agents.GetByName(ctx, "boiler-tech")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got.ID != agent.ID {
		t.Errorf("GetByName() ID = %q, want %q", got.ID, agent.ID)
	}
	if got.CreatedAt.IsZero() {
		t.Error("GetByName() CreatedAt is zero")
	}
}

func TestAgentRepo_CreateDuplicateName(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	if _, err := repos.agents.Create(ctx, "dup", "", "agent_dup"); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if _, err := repos.agents.Create(ctx, "dup", "", "agent_dup"); err == nil {
		t.Error("expected error creating agent with duplicate name, got nil")
	}
}

func TestAgentRepo_GetByNameNotFound(t *testing.T) {
	repos := setupTestDB(t)

	_, err := repos.agents.GetByName(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() error = %v, want ErrNotFound", err)
	}
}

func TestAgentRepo_ListAll(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	agents, err := repos.agents.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(agents) != 0 {
		t.Fatalf("ListAll() on empty db = %d agents, want 0", len(agents))
	}

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := repos.agents.Create(ctx, name, "", "agent_"+name); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	agents, err = repos.agents.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(agents) != 3 {
		t.Fatalf("ListAll() = %d agents, want 3", len(agents))
	}
	wantOrder := []string{"alpha", "mid", "zeta"}
	for i, want := range wantOrder {
		if agents[i].Name != want {
			t.Errorf("agents[%d].Name = %q, want %q", i, agents[i].Name, want)
		}
	}
}

func TestAgentRepo_Delete(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	if _, err := repos.agents.Create(ctx, "temp", "", "agent_temp"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repos.agents.RecordFile(ctx, "temp", "manual.pdf", 12); err != nil {
		t.Fatalf("RecordFile() error = %v", err)
	}

	if err := repos.agents.Delete(ctx, "temp"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repos.agents.GetByName(ctx, "temp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() after delete error = %v, want ErrNotFound", err)
	}

	if err := repos.agents.Delete(ctx, "temp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestAgentRepo_RecordAndRemoveFile(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	if _, err := repos.agents.Create(ctx, "hvac", "", "agent_hvac"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	has, err := repos.agents.HasFile(ctx, "hvac", "install.pdf")
	if err != nil {
		t.Fatalf("HasFile() error = %v", err)
	}
	if has {
		t.Error("HasFile() = true before recording, want false")
	}

	if err := repos.agents.RecordFile(ctx, "hvac", "install.pdf", 40); err != nil {
		t.Fatalf("RecordFile() error = %v", err)
	}
	if err := repos.agents.RecordFile(ctx, "hvac", "service.pdf", 25); err != nil {
		t.Fatalf("RecordFile() error = %v", err)
	}

	has, err = repos.agents.HasFile(ctx, "hvac", "install.pdf")
	if err != nil {
		t.Fatalf("HasFile() error = %v", err)
	}
	if !has {
		t.Error("HasFile() = false after recording, want true")
	}

	agent, err := repos.agents.GetByName(ctx, "hvac")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if agent.TotalChunks != 65 {
		t.Errorf("TotalChunks = %d, want 65", agent.TotalChunks)
	}
	if len(agent.Files) != 2 {
		t.Fatalf("Files = %v, want 2 entries", agent.Files)
	}

	if err := repos.agents.RemoveFile(ctx, "hvac", "install.pdf", 40); err != nil {
		t.Fatalf("RemoveFile() error = %v", err)
	}
	agent, err = repos.agents.GetByName(ctx, "hvac")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if agent.TotalChunks != 25 {
		t.Errorf("TotalChunks after remove = %d, want 25", agent.TotalChunks)
	}
	if len(agent.Files) != 1 || agent.Files[0] != "service.pdf" {
		t.Errorf("Files after remove = %v, want [service.pdf]", agent.Files)
	}
}

func TestAgentRepo_RemoveFileFloorsAtZero(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	if _, err := repos.agents.Create(ctx, "small", "", "agent_small"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repos.agents.RecordFile(ctx, "small", "a.pdf", 5); err != nil {
		t.Fatalf("RecordFile() error = %v", err)
	}
	if err := repos.agents.RemoveFile(ctx, "small", "a.pdf", 100); err != nil {
		t.Fatalf("RemoveFile() error = %v", err)
	}

	agent, err := repos.agents.GetByName(ctx, "small")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if agent.TotalChunks != 0 {
		t.Errorf("TotalChunks = %d, want 0", agent.TotalChunks)
	}
}
