package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"insta_syncer/internal/config"
	"insta_syncer/internal/publisher"
	"insta_syncer/internal/schedule"
	"insta_syncer/internal/service"
	"insta_syncer/internal/source/instagram"
	"insta_syncer/internal/storage/postgres"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger

	db        *sqlx.DB
	publisher service.Publisher
	service   *service.SyncService
	gate      *schedule.Gate
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logger:     setupLogger("info"),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(*c.configFlag)
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = setupLogger(cfg.LogLevel)
	})
	return c.config, c.configErr
}

func (c *commandContext) database() (*sqlx.DB, error) {
	if c.db != nil {
		return c.db, nil
	}

	db, err := sqlx.Connect("postgres", c.config.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	c.logger.Info("connected to database", "host", c.config.Database.Host, "dbname", c.config.Database.DBName)

	c.db = db
	return db, nil
}

// syncService wires the stores, adapter, publisher and gate into one service.
func (c *commandContext) syncService() (*service.SyncService, error) {
	if c.service != nil {
		return c.service, nil
	}

	db, err := c.database()
	if err != nil {
		return nil, err
	}

	gate, err := schedule.FromConfig(c.config.Sync)
	if err != nil {
		return nil, err
	}
	c.gate = gate

	pub, err := c.newPublisher()
	if err != nil {
		return nil, err
	}
	c.publisher = pub

	source := instagram.New(instagram.Config{
		BaseURL:     c.config.API.BaseURL,
		AccessToken: c.config.API.AccessToken,
		MediaLimit:  c.config.API.MediaLimit,
		Timeout:     c.config.API.Timeout,
	})

	stores := service.Stores{
		Accounts:  postgres.NewAccountStore(db),
		Media:     postgres.NewMediaStore(db),
		Stories:   postgres.NewStoryStore(db),
		Snapshots: postgres.NewSnapshotStore(db),
		SyncLog:   postgres.NewSyncLogStore(db),
	}

	c.service = service.NewSyncService(
		source,
		stores,
		postgres.NewTransactionManager(db),
		pub,
		gate,
		c.logger,
		c.config.Sync,
	)
	return c.service, nil
}

func (c *commandContext) newPublisher() (service.Publisher, error) {
	if !c.config.RabbitMQ.Enabled {
		return publisher.Nop{}, nil
	}

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        c.config.RabbitMQ.URL,
		Exchange:   c.config.RabbitMQ.Exchange,
		RoutingKey: c.config.RabbitMQ.RoutingKey,
		QueueName:  c.config.RabbitMQ.QueueName,
	}, c.logger)
	if err != nil {
		return nil, err
	}
	return rabbitMQ, nil
}

func (c *commandContext) close() error {
	var errs []error
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
		c.publisher = nil
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
		c.db = nil
	}
	return errors.Join(errs...)
}
