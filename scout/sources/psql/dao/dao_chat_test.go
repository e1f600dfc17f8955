package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"scout/scout/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Chat{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateChat(t *testing.T, d *ChatDAO, title string) *models.Chat {
	t.Helper()
	chat := &models.Chat{Title: title}
	if err := d.CreateChat(context.Background(), chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return chat
}

func TestCreateAndGetChat(t *testing.T) {
	d := NewChatDAO(newTestDB(t))
	ctx := context.Background()

	chat := mustCreateChat(t, d, "my chat")
	if chat.ID == uuid.Nil {
		t.Fatal("chat id not assigned on create")
	}

	got, err := d.GetChatByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if got == nil {
		t.Fatal("chat not found after create")
	}
	if got.Title != "my chat" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Messages) != 0 {
		t.Errorf("new chat should have no messages, got %d", len(got.Messages))
	}
}

func TestGetChatByIDMissing(t *testing.T) {
	d := NewChatDAO(newTestDB(t))
	got, err := d.GetChatByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing chat, got %+v", got)
	}
}

func TestMessagesKeepInsertionOrder(t *testing.T) {
	d := NewChatDAO(newTestDB(t))
	ctx := context.Background()
	chat := mustCreateChat(t, d, "ordered")

	for i, content := range []string{"first", "second", "third"} {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msg := &models.Message{ChatID: chat.ID, Role: role, Content: content}
		if err := d.SaveMessage(ctx, msg); err != nil {
			t.Fatalf("save message %d: %v", i, err)
		}
	}

	got, err := d.GetChatByID(ctx, chat.ID)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got.Messages[i].Content != want {
			t.Errorf("message %d = %q, want %q", i, got.Messages[i].Content, want)
		}
	}
}

func TestGetHistoryExcludesNewestMessage(t *testing.T) {
	d := NewChatDAO(newTestDB(t))
	ctx := context.Background()
	chat := mustCreateChat(t, d, "history")

	older := &models.Message{ChatID: chat.ID, Role: "user", Content: "earlier question"}
	if err := d.SaveMessage(ctx, older); err != nil {
		t.Fatal(err)
	}
	answer := &models.Message{ChatID: chat.ID, Role: "assistant", Content: "earlier answer"}
	if err := d.SaveMessage(ctx, answer); err != nil {
		t.Fatal(err)
	}
	newest := &models.Message{ChatID: chat.ID, Role: "user", Content: "new question"}
	if err := d.SaveMessage(ctx, newest); err != nil {
		t.Fatal(err)
	}

	history, err := d.GetHistory(ctx, chat.ID, newest.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "earlier question" {
		t.Errorf("unexpected first entry: %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "earlier answer" {
		t.Errorf("unexpected second entry: %+v", history[1])
	}
}

func TestSaveMessageTouchesChat(t *testing.T) {
	db := newTestDB(t)
	d := NewChatDAO(db)
	ctx := context.Background()
	chat := mustCreateChat(t, d, "active")

	stale := time.Now().UTC().Add(-24 * time.Hour)
	if err := db.Model(&models.Chat{}).Where("id = ?", chat.ID).
		Update("updated_at", stale).Error; err != nil {
		t.Fatal(err)
	}

	msg := &models.Message{ChatID: chat.ID, Role: "user", Content: "ping"}
	if err := d.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("save message: %v", err)
	}

	got, err := d.GetChatByID(ctx, chat.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.UpdatedAt.After(stale) {
		t.Errorf("updated_at not bumped: %v", got.UpdatedAt)
	}
}

func TestSaveMessageRollsBackOnUnknownChat(t *testing.T) {
	db := newTestDB(t)
	d := NewChatDAO(db)
	ctx := context.Background()
	mustCreateChat(t, d, "bystander")

	orphan := &models.Message{ChatID: uuid.New(), Role: "user", Content: "lost"}
	if err := d.SaveMessage(ctx, orphan); err == nil {
		t.Fatal("expected an error for a message without a chat")
	}

	var count int64
	db.Model(&models.Message{}).Count(&count)
	if count != 0 {
		t.Errorf("failed save must leave no rows, got %d", count)
	}
}

func TestListChatsOrdersByActivity(t *testing.T) {
	db := newTestDB(t)
	d := NewChatDAO(db)
	ctx := context.Background()

	a := mustCreateChat(t, d, "a")
	b := mustCreateChat(t, d, "b")
	c := mustCreateChat(t, d, "c")

	now := time.Now().UTC()
	for i, chat := range []*models.Chat{b, c, a} {
		ts := now.Add(time.Duration(i-3) * time.Hour)
		if err := db.Model(&models.Chat{}).Where("id = ?", chat.ID).
			Update("updated_at", ts).Error; err != nil {
			t.Fatal(err)
		}
	}

	chats, err := d.ListChats(ctx, 2)
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(chats))
	}
	if chats[0].Title != "a" || chats[1].Title != "c" {
		t.Errorf("unexpected order: %s, %s", chats[0].Title, chats[1].Title)
	}
}

func TestUpdateChatTitle(t *testing.T) {
	d := NewChatDAO(newTestDB(t))
	ctx := context.Background()
	chat := mustCreateChat(t, d, "old title")

	updated, err := d.UpdateChatTitle(ctx, chat.ID, "new title")
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if updated == nil || updated.Title != "new title" {
		t.Errorf("unexpected updated chat: %+v", updated)
	}

	missing, err := d.UpdateChatTitle(ctx, uuid.New(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing chat")
	}
}

func TestDeleteChatCascadesMessages(t *testing.T) {
	db := newTestDB(t)
	d := NewChatDAO(db)
	ctx := context.Background()

	chat := mustCreateChat(t, d, "doomed")
	keeper := mustCreateChat(t, d, "keeper")
	for _, c := range []*models.Chat{chat, keeper} {
		msg := &models.Message{ChatID: c.ID, Role: "user", Content: "hello"}
		if err := d.SaveMessage(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := d.DeleteChat(ctx, chat.ID)
	if err != nil {
		t.Fatalf("delete chat: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report a match")
	}

	var orphans int64
	if err := db.Model(&models.Message{}).Where("chat_id = ?", chat.ID).Count(&orphans).Error; err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Errorf("expected cascade to remove messages, %d left", orphans)
	}

	var remaining int64
	if err := db.Model(&models.Message{}).Where("chat_id = ?", keeper.ID).Count(&remaining).Error; err != nil {
		t.Fatal(err)
	}
	if remaining != 1 {
		t.Errorf("other chat's messages must survive, got %d", remaining)
	}

	again, err := d.DeleteChat(ctx, chat.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again {
		t.Error("second delete should report no match")
	}
}

func TestDeleteAllChats(t *testing.T) {
	db := newTestDB(t)
	d := NewChatDAO(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		chat := mustCreateChat(t, d, "c")
		msg := &models.Message{ChatID: chat.ID, Role: "user", Content: "hi"}
		if err := d.SaveMessage(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}

	if err := d.DeleteAllChats(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	var chats, msgs int64
	db.Model(&models.Chat{}).Count(&chats)
	db.Model(&models.Message{}).Count(&msgs)
	if chats != 0 || msgs != 0 {
		t.Errorf("expected empty store, got %d chats and %d messages", chats, msgs)
	}
}
