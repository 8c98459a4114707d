package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cepyx/config"
	"cepyx/model"
	"cepyx/provider"
	"cepyx/storage"
	"cepyx/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Open persistence; a broken database degrades to in-memory so the
	// app still starts (nothing survives exit in that mode).
	var kv storage.KV
	kv, err = storage.NewSQLiteKV(cfg.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: persistence unavailable, running in-memory: %v\n", err)
		if config.Debug {
			config.DebugLog.Printf("[Main] SQLite open failed: %v", err)
		}
		kv = storage.NewMemoryKV()
	}
	defer kv.Close()

	store := storage.NewConversationStore(kv)

	prov, err := provider.NewProvider(provider.Config{
		Type:     provider.MapProviderIDToType(cfg.ProviderID),
		Endpoint: cfg.Endpoint,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
	})
	if err != nil {
		fmt.Printf("Failed to initialize provider %q: %v\n", cfg.ProviderID, err)
		os.Exit(1)
	}

	dataModel := model.NewModel(cfg, store, prov, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running cepyx: %v\n", err)
		os.Exit(1)
	}

	// Final write-through on clean exit.
	if err := store.Flush(); err != nil && config.Debug {
		config.DebugLog.Printf("[Main] Final flush failed: %v", err)
	}
}
