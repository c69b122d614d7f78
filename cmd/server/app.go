package main

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"plantcare/config"
	"plantcare/database"
	"plantcare/pkg/ai"
	"plantcare/pkg/climate"
	"plantcare/pkg/events"
	plantRepo "plantcare/pkg/plant/repository"
	plantRepoImp "plantcare/pkg/plant/repositoryImp"
	"plantcare/pkg/platform/logger"
	proxySvc "plantcare/pkg/proxy/service"
	proxySvcImp "plantcare/pkg/proxy/serviceImp"
	settingsRepo "plantcare/pkg/settings/repository"
	settingsRepoImp "plantcare/pkg/settings/repositoryImp"
	wateringRepo "plantcare/pkg/watering/repository"
	wateringRepoImp "plantcare/pkg/watering/repositoryImp"
)

// app is the shared wiring behind every command.
type app struct {
	cfg config.AppConfig
	log *logger.Logger
	db  *gorm.DB
	hub *events.Hub
	now func() time.Time

	plants    plantRepo.PlantRepository
	waterings wateringRepo.WateringRepository
	settings  settingsRepo.SettingsRepository

	llmConfigured bool
	proxy         proxySvc.ProxyService
	advisor       proxySvc.Advisor
	fallbacks     *climate.FallbackTable
}

func newApp() (*app, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	now := func() time.Time { return time.Now().In(loc) }
	hub := events.NewHub(log)

	fallbacks, err := climate.LoadFallbacks(cfg.FallbackCSV, cfg.FallbackXLSX)
	if err != nil {
		log.Warn("fallback overrides not applied", "error", err)
		fallbacks = climate.DefaultFallbacks()
	}

	llm := ai.New(ai.Config{
		Provider:       cfg.LLMProvider,
		AnthropicKey:   cfg.AnthropicAPIKey,
		AnthropicModel: cfg.AnthropicModel,
		Endpoint:       cfg.LLMEndpoint,
		Key:            cfg.LLMAPIKey,
		Model:          cfg.LLMModel,
		Timeout:        cfg.LLMTimeout,
	})
	proxy := proxySvcImp.NewProxyService(llm, log, now)

	var advisor proxySvc.Advisor = proxy
	if cfg.AdviceEndpoint != "" {
		advisor = proxySvcImp.NewHTTPAdvisor(cfg.AdviceEndpoint, cfg.ClientToken, cfg.LLMTimeout)
		log.Info("using remote advice endpoint", "endpoint", cfg.AdviceEndpoint)
	}

	return &app{
		cfg:           cfg,
		log:           log,
		db:            db,
		hub:           hub,
		now:           now,
		plants:        plantRepoImp.New(db, hub),
		waterings:     wateringRepoImp.New(db, hub),
		settings:      settingsRepoImp.New(db, hub),
		llmConfigured: cfg.AnthropicAPIKey != "" || (cfg.LLMEndpoint != "" && cfg.LLMAPIKey != ""),
		proxy:         proxy,
		advisor:       advisor,
		fallbacks:     fallbacks,
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.log.Sync()
}
