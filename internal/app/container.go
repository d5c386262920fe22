package app

import (
	"context"
	"time"

	"github.com/vocusapp/vocus/internal/conversation"
	"github.com/vocusapp/vocus/internal/domain"
	"github.com/vocusapp/vocus/internal/infrastructure/backend"
	"github.com/vocusapp/vocus/internal/infrastructure/config"
	"github.com/vocusapp/vocus/internal/infrastructure/remote"
	"github.com/vocusapp/vocus/internal/infrastructure/storage"
	"github.com/vocusapp/vocus/internal/nlu"
	"github.com/vocusapp/vocus/internal/pkg/logger"
	"github.com/vocusapp/vocus/internal/planner"
	"github.com/vocusapp/vocus/internal/ports"
	"github.com/vocusapp/vocus/internal/router"
	"github.com/vocusapp/vocus/internal/services"
	"github.com/vocusapp/vocus/internal/usage"
)

// Container wires up the pipeline with its infrastructure adapters.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Commands      *services.CommandService
	Storage       ports.Storage
	Aliases       ports.AliasRegistry
	Usage         *usage.Tracker
	Remote        ports.RemoteParser
	Blocking      *backend.LocalBlocking
	Notifications *backend.LocalNotifications
	Logger        ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	store, err := storage.NewSQLiteStore("")
	if err != nil {
		return nil, err
	}

	classifier, err := nlu.NewClassifier(cfg.Classifier.RulesFile)
	if err != nil {
		return nil, err
	}
	parser := &nlu.Parser{
		Classifier:          classifier,
		DefaultBlockMinutes: cfg.Preferences.DefaultBlockMinutes,
	}

	aliases := &backend.AliasStore{Storage: store}
	contexts := conversation.NewStore(
		store,
		time.Duration(cfg.Conversation.TTLMinutes)*time.Minute,
		log,
	)
	tracker := &usage.Tracker{
		Storage: store,
		Premium: backend.ConfigPremium{Premium: cfg.Preferences.Premium},
		Limit:   cfg.Preferences.DailyCloudLimit,
		Logger:  log,
	}
	remoteParser := remote.NewHTTPParser(cfg.Remote)

	hybrid := &router.Hybrid{
		Local:               parser,
		Remote:              remoteParser,
		Usage:               tracker,
		Logger:              log,
		Enabled:             cfg.Preferences.HybridMode,
		Threshold:           cfg.Preferences.ConfidenceThreshold,
		DefaultBlockMinutes: cfg.Preferences.DefaultBlockMinutes,
	}

	blocking := &backend.LocalBlocking{Aliases: aliases, Storage: store, Logger: log}
	notifications := &backend.LocalNotifications{
		Storage: store,
		Granted: cfg.Notifications.PermissionGranted,
		Logger:  log,
	}

	commands := &services.CommandService{
		Router:    hybrid,
		Parser:    parser,
		Contexts:  contexts,
		Aliases:   aliases,
		Focus:     &planner.Focus{Blocking: blocking, Logger: log},
		Reminders: &planner.Reminder{Notifications: notifications, Logger: log},
		Grace: &planner.Grace{
			Delay: time.Duration(cfg.Execution.GraceSeconds) * time.Second,
		},
		Storage:              store,
		Logger:               log,
		AllowDefaultDuration: cfg.Preferences.AllowDefaultDuration,
	}

	return &Container{
		Config:        cfg,
		ConfigLoader:  cfgLoader,
		Commands:      commands,
		Storage:       store,
		Aliases:       aliases,
		Usage:         tracker,
		Remote:        remoteParser,
		Blocking:      blocking,
		Notifications: notifications,
		Logger:        log,
	}, nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	return c.Storage.Close()
}
