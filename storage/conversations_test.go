package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func userMessage(content string) Message {
	return Message{
		ID:        fmt.Sprintf("id-%d", time.Now().UnixNano()),
		Role:      "user",
		Content:   content,
		Timestamp: time.Now(),
	}
}

func TestConversationStoreCreate(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())

	conv := store.Create(nil, "")
	if conv.ID == "" {
		t.Fatal("Create() returned conversation without ID")
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if store.ActiveID() != conv.ID {
		t.Errorf("ActiveID() = %q, want %q", store.ActiveID(), conv.ID)
	}
}

func TestConversationStoreCreateWithInitialHistory(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())

	initial := []Message{
		userMessage("go dilinde kanal kullanımı nasıl çalışır ve ne zaman tercih edilmeli"),
		{ID: "a-1", Role: "assistant", Content: "Kanallar goroutineler arasında veri taşır.", Timestamp: time.Now()},
	}
	conv := store.Create(initial, "")
	if len(conv.Messages) != 2 {
		t.Fatalf("Messages = %d entries, want the seeded history", len(conv.Messages))
	}
	if !strings.HasSuffix(conv.Title, "...") {
		t.Errorf("Title = %q, want one derived from the first user message", conv.Title)
	}

	// An explicit title wins over derivation.
	named := store.Create(initial, "Kanallar")
	if named.Title != "Kanallar" {
		t.Errorf("Title = %q, want the explicit title", named.Title)
	}

	// A leading assistant message falls back to the default title.
	fallback := store.Create([]Message{
		{ID: "a-2", Role: "assistant", Content: "Hoş geldiniz!", Timestamp: time.Now()},
	}, "")
	if fallback.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", fallback.Title, DefaultTitle)
	}
}

func TestConversationStoreEviction(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())

	var ids []string
	for i := 0; i < MaxConversations; i++ {
		conv := store.Create(nil, "")
		// Distinct UpdatedAt per conversation so eviction order is
		// unambiguous.
		store.Sync([]Message{userMessage(fmt.Sprintf("konuşma %d", i))})
		ids = append(ids, conv.ID)
	}
	if store.Count() != MaxConversations {
		t.Fatalf("Count() = %d, want %d", store.Count(), MaxConversations)
	}

	overflow := store.Create(nil, "")
	if store.Count() != MaxConversations {
		t.Errorf("Count() after overflow = %d, want %d", store.Count(), MaxConversations)
	}
	if _, ok := store.Load(ids[0], nil); ok {
		t.Error("oldest conversation survived eviction")
	}
	if _, ok := store.Load(overflow.ID, nil); !ok {
		t.Error("newly created conversation missing after eviction")
	}
}

func TestConversationStoreLoadFlushesPending(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())

	first := store.Create(nil, "")
	pending := []Message{userMessage("ilk konuşmanın mesajı")}

	second := store.Create(nil, "")
	// Creating made second active; go back to first with no pending,
	// then to second carrying first's live history. The pending slice
	// must land in the conversation that was active at switch time.
	if _, ok := store.Load(first.ID, nil); !ok {
		t.Fatal("Load(first) failed")
	}
	if _, ok := store.Load(second.ID, pending); !ok {
		t.Fatal("Load(second) failed")
	}

	msgs, ok := store.Load(first.ID, nil)
	if !ok {
		t.Fatal("Load(first) failed after round trip")
	}
	if len(msgs) != 1 || msgs[0].Content != "ilk konuşmanın mesajı" {
		t.Errorf("pending messages not flushed on switch: %v", msgs)
	}
}

func TestConversationStoreLoadUnknownID(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())
	conv := store.Create(nil, "")
	store.Sync([]Message{userMessage("mevcut içerik")})

	if _, ok := store.Load("yok-böyle-bir-id", nil); ok {
		t.Fatal("Load() succeeded for unknown id")
	}
	if store.ActiveID() != conv.ID {
		t.Errorf("active conversation changed on failed load: %q", store.ActiveID())
	}
	msgs, _ := store.Load(conv.ID, nil)
	if len(msgs) != 1 {
		t.Errorf("messages lost on failed load: %v", msgs)
	}
}

func TestConversationStoreSyncTitle(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())
	store.Create(nil, "")

	long := strings.Repeat("çok uzun bir başlık ", 5)
	store.Sync([]Message{userMessage(long)})

	active, ok := store.Active()
	if !ok {
		t.Fatal("no active conversation")
	}
	if !strings.HasSuffix(active.Title, "...") {
		t.Errorf("long title not truncated: %q", active.Title)
	}
	if got := len([]rune(strings.TrimSuffix(active.Title, "..."))); got != 30 {
		t.Errorf("truncated title holds %d runes, want 30", got)
	}

	store.Create(nil, "")
	store.Sync([]Message{userMessage("kısa")})
	active, _ = store.Active()
	if active.Title != "kısa" {
		t.Errorf("short title = %q, want %q", active.Title, "kısa")
	}
}

func TestConversationStoreDelete(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())
	conv := store.Create(nil, "")

	store.Delete(conv.ID)
	if store.Count() != 0 {
		t.Errorf("Count() = %d after delete, want 0", store.Count())
	}
	if store.ActiveID() != "" {
		t.Errorf("ActiveID() = %q after deleting active, want empty", store.ActiveID())
	}

	// Deleting an unknown id is a no-op.
	store.Delete("yok")
}

func TestConversationStoreListOrder(t *testing.T) {
	store := NewConversationStore(NewMemoryKV())

	a := store.Create(nil, "")
	store.Sync([]Message{userMessage("eski")})
	b := store.Create(nil, "")
	store.Sync([]Message{userMessage("yeni")})

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Errorf("List() order = [%s %s], want newest first", list[0].Title, list[1].Title)
	}
}

func TestConversationStorePersistenceRoundTrip(t *testing.T) {
	kv := NewMemoryKV()

	store := NewConversationStore(kv)
	conv := store.Create(nil, "")
	store.Sync([]Message{userMessage("kalıcı mesaj")})
	store.SetThemePreference("dark")

	reloaded := NewConversationStore(kv)
	if reloaded.Count() != 1 {
		t.Fatalf("reloaded Count() = %d, want 1", reloaded.Count())
	}
	if reloaded.ActiveID() != conv.ID {
		t.Errorf("reloaded ActiveID() = %q, want %q", reloaded.ActiveID(), conv.ID)
	}
	if reloaded.ThemePreference() != "dark" {
		t.Errorf("reloaded ThemePreference() = %q, want %q", reloaded.ThemePreference(), "dark")
	}
	msgs, ok := reloaded.Load(conv.ID, nil)
	if !ok || len(msgs) != 1 || msgs[0].Content != "kalıcı mesaj" {
		t.Errorf("reloaded messages = %v", msgs)
	}
}

func TestConversationStoreCorruptState(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set("conversations", "{bozuk json")
	kv.Set("active_conversation", "hayalet-id")

	store := NewConversationStore(kv)
	if store.Count() != 0 {
		t.Errorf("Count() = %d with corrupt state, want 0", store.Count())
	}
	if store.ActiveID() != "" {
		t.Errorf("ActiveID() = %q with dangling pointer, want empty", store.ActiveID())
	}
	// The store must stay usable.
	if conv := store.Create(nil, ""); conv.ID == "" {
		t.Error("Create() failed after corrupt load")
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", DefaultTitle},
		{"whitespace", "   ", DefaultTitle},
		{"short", "merhaba", "merhaba"},
		{"exactly thirty runes", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"truncated", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.content); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}
	defer kv.Close()

	if _, err := kv.Get("yok"); err != ErrNotFound {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := kv.Set("anahtar", "değer"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, err := kv.Get("anahtar"); err != nil || got != "değer" {
		t.Errorf("Get() = %q, %v", got, err)
	}

	// Set is a full overwrite.
	if err := kv.Set("anahtar", "yeni değer"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if got, _ := kv.Get("anahtar"); got != "yeni değer" {
		t.Errorf("Get() after overwrite = %q", got)
	}

	if err := kv.Delete("anahtar"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := kv.Get("anahtar"); err != ErrNotFound {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
