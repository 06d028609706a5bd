package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestConversationRepo_CreateDerivesTitle(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		firstMessage string
		wantTitle    string
	}{
		{
			name:         "short message used verbatim",
			firstMessage: "How do I reset the boiler?",
			wantTitle:    "How do I reset the boiler?",
		},
		{
			name:         "long message truncated to 50 chars",
			firstMessage: strings.Repeat("a", 80),
			wantTitle:    strings.Repeat("a", 50) + "...",
		},
		{
			name:         "exactly 50 chars kept whole",
			firstMessage: strings.Repeat("b", 50),
			wantTitle:    strings.Repeat("b", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := repos.conversations.Create(ctx, "hvac", tt.firstMessage)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if conv.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", conv.Title, tt.wantTitle)
			}
			if conv.AgentName != "hvac" {
				t.Errorf("AgentName = %q, want %q", conv.AgentName, "hvac")
			}
			if conv.MessageCount != 0 {
				t.Errorf("MessageCount = %d, want 0", conv.MessageCount)
			}
		})
	}
}

func TestConversationRepo_GetNotFound(t *testing.T) {
	repos := setupTestDB(t)

	_, err := repos.conversations.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestConversationRepo_AddAndListMessages(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	conv, err := repos.conversations.Create(ctx, "", "What is error E3?")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	userMsg, err := repos.conversations.AddMessage(ctx, conv.ID, "user", "What is error E3?")
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if userMsg.Sender != "user" {
		t.Errorf("Sender = %q, want %q", userMsg.Sender, "user")
	}
	if _, err := repos.conversations.AddMessage(ctx, conv.ID, "assistant", "Error E3 means low water pressure."); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	messages, err := repos.conversations.Messages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("Messages() = %d messages, want 2", len(messages))
	}
	if messages[0].Sender != "user" || messages[1].Sender != "assistant" {
		t.Errorf("message order = [%s, %s], want [user, assistant]", messages[0].Sender, messages[1].Sender)
	}

	got, err := repos.conversations.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", got.MessageCount)
	}
}

func TestConversationRepo_AddMessageToMissingConversation(t *testing.T) {
	repos := setupTestDB(t)

	_, err := repos.conversations.AddMessage(context.Background(), "missing", "user", "hello")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AddMessage() error = %v, want ErrNotFound", err)
	}
}

func TestConversationRepo_ListFiltersByAgent(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	if _, err := repos.conversations.Create(ctx, "hvac", "first"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repos.conversations.Create(ctx, "boiler", "second"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repos.conversations.Create(ctx, "hvac", "third"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	all, err := repos.conversations.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(\"\") = %d conversations, want 3", len(all))
	}

	hvac, err := repos.conversations.List(ctx, "hvac")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(hvac) != 2 {
		t.Errorf("List(\"hvac\") = %d conversations, want 2", len(hvac))
	}
	for _, conv := range hvac {
		if conv.AgentName != "hvac" {
			t.Errorf("List(\"hvac\") returned conversation for agent %q", conv.AgentName)
		}
	}
}

func TestConversationRepo_Delete(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	conv, err := repos.conversations.Create(ctx, "", "bye")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repos.conversations.AddMessage(ctx, conv.ID, "user", "bye"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	if err := repos.conversations.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repos.conversations.Get(ctx, conv.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := repos.conversations.Delete(ctx, conv.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
