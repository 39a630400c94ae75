// Package wire provides dependency injection for quotedesk.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/quotedesk/internal/adapters/cli"
	"github.com/example/quotedesk/internal/adapters/rabbitmq"
	"github.com/example/quotedesk/internal/adapters/session"
	"github.com/example/quotedesk/internal/adapters/sqlstore"
	"github.com/example/quotedesk/internal/app"
	"github.com/example/quotedesk/internal/config"
	"github.com/example/quotedesk/internal/core/order"
	"github.com/example/quotedesk/internal/db"
	"github.com/example/quotedesk/internal/logging"
	"github.com/example/quotedesk/internal/ports/primary"
	"github.com/example/quotedesk/internal/ports/secondary"
)

var (
	configPath string

	cfg      *config.Config
	logger   *logrus.Logger
	database *sql.DB
	closers  []io.Closer

	accessGuard         primary.AccessGuard
	quoteService        primary.QuoteService
	ledgerService       primary.LedgerService
	orderService        primary.OrderService
	conversationService primary.ConversationService
	clientService       primary.ClientService
	once                sync.Once
)

// SetConfigPath selects the config file read on first use. It has no effect
// once services are initialized.
func SetConfigPath(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the process logger.
func Logger() logrus.FieldLogger {
	once.Do(initServices)
	return logger
}

// DB returns the migrated database connection.
func DB() *sql.DB {
	once.Do(initServices)
	return database
}

// AccessGuard returns the singleton AccessGuard instance.
func AccessGuard() primary.AccessGuard {
	once.Do(initServices)
	return accessGuard
}

// QuoteService returns the singleton QuoteService instance.
func QuoteService() primary.QuoteService {
	once.Do(initServices)
	return quoteService
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// OrderService returns the singleton OrderService instance.
func OrderService() primary.OrderService {
	once.Do(initServices)
	return orderService
}

// ConversationService returns the singleton ConversationService instance.
func ConversationService() primary.ConversationService {
	once.Do(initServices)
	return conversationService
}

// ClientService returns the singleton ClientService instance.
func ClientService() primary.ClientService {
	once.Do(initServices)
	return clientService
}

// Close releases the database, the session store and the event publisher.
func Close() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && logger != nil {
			logger.WithError(err).Warn("close failed")
		}
	}
	closers = nil
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	ctx := context.Background()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("failed to configure logging: %v", err)
	}

	database, err = db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	closers = append(closers, database)
	if err := db.InitSchema(ctx, database); err != nil {
		logger.Fatalf("failed to initialize schema: %v", err)
	}

	// Create repository adapters (secondary ports) over the shared connection
	quoteRepo := sqlstore.NewQuoteRepository(database)
	itemRepo := sqlstore.NewLineItemRepository(database)
	orderRepo := sqlstore.NewOrderRepository(database)
	messageRepo := sqlstore.NewMessageRepository(database)
	clientRepo := sqlstore.NewClientRepository(database)

	sessions := newSessionStore(ctx)

	// The audit trail always listens; the broker is optional.
	bus := app.NewEventBus(logger, app.NewAuditTrail(messageRepo))
	if cfg.AMQP.URL != "" {
		publisher, err := rabbitmq.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.WithError(err).Warn("event publishing disabled")
		} else {
			bus.Subscribe(publisher)
			closers = append(closers, publisher)
		}
	}

	policy := order.Permissive
	if cfg.Orders.ForwardOnly {
		policy = order.ForwardOnly
	}

	// Create services (primary ports implementation)
	accessGuard = app.NewAccessGuard(sessions, cfg.Session.TTL)
	quoteService = app.NewQuoteService(quoteRepo, itemRepo, orderRepo, clientRepo, bus, logger, app.QuoteOptions{
		ValidityDays: cfg.Quotes.ValidityDays,
	})
	ledgerService = app.NewLedgerService(quoteRepo, itemRepo, logger)
	orderService = app.NewOrderService(orderRepo, bus, logger, policy)
	conversationService = app.NewConversationService(messageRepo, quoteRepo, orderRepo, bus, logger)
	clientService = app.NewClientService(clientRepo)
}

func newSessionStore(ctx context.Context) secondary.SessionStore {
	switch cfg.Session.Backend {
	case config.SessionRedis:
		store, err := session.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Fatalf("failed to connect session store: %v", err)
		}
		closers = append(closers, store)
		return store
	case config.SessionMemory:
		return session.NewMemoryStore()
	default:
		store, err := session.NewJWTStore(cfg.JWT.Secret)
		if err != nil {
			logger.Fatalf("failed to create session store: %v (set QUOTEDESK_JWT_SECRET)", err)
		}
		return store
	}
}

// QuoteAdapter returns a new QuoteAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func QuoteAdapter() *cliadapter.QuoteAdapter {
	return QuoteAdapterWithOutput(os.Stdout)
}

// QuoteAdapterWithOutput returns a new QuoteAdapter writing to the given output.
func QuoteAdapterWithOutput(out io.Writer) *cliadapter.QuoteAdapter {
	once.Do(initServices)
	return cliadapter.NewQuoteAdapter(accessGuard, quoteService, ledgerService, out)
}

// OrderAdapter returns a new OrderAdapter writing to stdout.
func OrderAdapter() *cliadapter.OrderAdapter {
	once.Do(initServices)
	return cliadapter.NewOrderAdapter(accessGuard, orderService, os.Stdout)
}

// ConversationAdapter returns a new ConversationAdapter writing to stdout.
func ConversationAdapter() *cliadapter.ConversationAdapter {
	once.Do(initServices)
	return cliadapter.NewConversationAdapter(accessGuard, conversationService, os.Stdout)
}

// ClientAdapter returns a new ClientAdapter writing to stdout.
func ClientAdapter() *cliadapter.ClientAdapter {
	once.Do(initServices)
	return cliadapter.NewClientAdapter(accessGuard, clientService, os.Stdout)
}

// SessionAdapter returns a new SessionAdapter writing to stdout.
func SessionAdapter() *cliadapter.SessionAdapter {
	once.Do(initServices)
	return cliadapter.NewSessionAdapter(accessGuard, os.Stdout)
}
