// Package cli provides the cobra-based storefront command line.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/ec-storefront/internal/client"
	"github.com/example/ec-storefront/internal/domain/catalog"
	"github.com/example/ec-storefront/internal/events"
	"github.com/example/ec-storefront/internal/infrastructure/kafka"
	"github.com/example/ec-storefront/internal/infrastructure/store"
	"github.com/example/ec-storefront/internal/session"
	"github.com/example/ec-storefront/internal/state"
	"github.com/example/ec-storefront/pkg/closer"
)

const (
	EnvPrefix         = "STOREFRONT"
	DefaultServer     = "http://localhost:8000"
	DefaultKafkaTopic = "storefront-events"
)

// App is one storefront process: flags, configuration and the lazily built
// state manager shared by every command it runs, including shell commands.
type App struct {
	root   *cobra.Command
	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	logger *logrus.Logger

	closer  *closer.Closer
	kv      store.KVStore
	remote  *client.Client
	manager *state.Manager
}

// Option customizes an App, mostly for tests.
type Option func(*App)

func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

// WithStore makes the App use kv instead of the configured backend.
func WithStore(kv store.KVStore) Option {
	return func(a *App) { a.kv = kv }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(a *App) { a.logger = logger }
}

func New(opts ...Option) *App {
	a := &App{
		v:      viper.New(),
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logrus.New(),
		closer: closer.New(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.root = a.rootCommand()
	a.root.SetIn(a.in)
	a.root.SetOut(a.out)
	a.root.SetErr(a.out)
	return a
}

// Execute runs args and releases every resource opened for them.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	err := a.root.ExecuteContext(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := a.closer.Close(closeCtx); cerr != nil {
		a.logger.WithError(cerr).Warn("shutdown")
	}
	return err
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog and manage a cart and wishlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.manager != nil {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("server", DefaultServer, "remote commerce service base URL")
	flags.Duration("timeout", client.DefaultTimeout, "remote call timeout")
	flags.String("auth-scheme", client.DefaultAuthScheme, "Authorization header scheme")
	flags.String("store", "file", "session store: memory|file|postgres|redis|dynamodb")
	flags.String("store-path", defaultStorePath(), "file store path")
	flags.String("store-dsn", "", "postgres DSN or redis URL")
	flags.String("store-table", store.DefaultDynamoTable, "dynamodb table")
	flags.String("store-region", "", "dynamodb region")
	flags.String("store-endpoint", "", "dynamodb endpoint override")
	flags.String("store-prefix", store.DefaultKeyPrefix, "redis key prefix")
	flags.StringSlice("kafka-brokers", nil, "publish state events to these brokers")
	flags.String("kafka-topic", DefaultKafkaTopic, "state event topic")
	flags.Duration("catalog-ttl", catalog.DefaultStaleAfter, "catalog cache freshness")
	flags.String("log-level", "warn", "log level")

	_ = a.v.BindPFlags(flags)
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.productsCommand(),
		a.productCommand(),
		a.searchCommand(),
		a.categoriesCommand(),
		a.likeCommand(),
		a.rateCommand(),
		a.recentsCommand(),
		a.loginCommand(),
		a.signupCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.cartCommand(),
		a.wishlistCommand(),
		a.eventsCommand(),
		a.shellCommand(),
	)
	return root
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront", "session.json")
}

// setup builds the store, client, publisher and manager from configuration.
func (a *App) setup(ctx context.Context) error {
	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}
	}

	if lvl, err := logrus.ParseLevel(a.v.GetString("log-level")); err == nil {
		a.logger.SetLevel(lvl)
	}

	if a.kv == nil {
		kv, err := store.New(ctx, store.Options{
			Kind:      a.v.GetString("store"),
			Path:      a.v.GetString("store-path"),
			DSN:       a.v.GetString("store-dsn"),
			Table:     a.v.GetString("store-table"),
			Region:    a.v.GetString("store-region"),
			Endpoint:  a.v.GetString("store-endpoint"),
			KeyPrefix: a.v.GetString("store-prefix"),
		})
		if err != nil {
			return err
		}
		a.kv = kv
		a.closer.AddCloser("session store", kv)
	}

	sess := session.New(a.kv, a.logger)
	a.remote = client.New(a.v.GetString("server"), a.logger,
		client.WithTimeout(a.v.GetDuration("timeout")),
		client.WithAuthScheme(a.v.GetString("auth-scheme")),
		client.WithTokenSource(client.TokenFunc(sess.Token)),
	)

	publisher := events.Multi{events.NewLogPublisher(a.logger)}
	if brokers := a.v.GetStringSlice("kafka-brokers"); len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, a.v.GetString("kafka-topic"), a.logger)
		a.closer.AddCloser("kafka producer", producer)
		publisher = append(publisher, events.NewKafkaPublisher(producer))
	}

	a.manager = state.New(state.Config{
		Session:   sess,
		Remote:    a.remote,
		Catalog:   catalog.New(a.remote, a.v.GetDuration("catalog-ttl"), a.logger),
		Publisher: publisher,
		Logger:    a.logger,
	})
	a.manager.Start(ctx)
	return nil
}
