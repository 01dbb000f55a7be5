package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhuels/dagview/internal/server"
	"github.com/mhuels/dagview/pkg/cache"
	"github.com/mhuels/dagview/pkg/pipeline"
	"github.com/mhuels/dagview/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	redisAddr string // optional Redis cache backend
	redisDB   int
	mongoURI  string // optional MongoDB layout store
	mongoDB   string
	noCache   bool
}

// serveCommand creates the serve command running the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: "dagview",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Serve runs an HTTP service exposing the render pipeline.

POST /api/render renders an expression and returns the artifacts inline.
The /api/layouts endpoints save, list, fetch, and delete layouts. Layouts
live in memory unless --mongo-uri points at a MongoDB instance. The render
cache uses the local cache directory unless --redis-addr points at a Redis
instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the render cache (e.g. localhost:6379)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for the layout store (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// runServe assembles the cache, store, and runner, then serves until cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	ca, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(ca, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, st, c.Logger)

	printInfo("Serving on %s", StyleHighlight.Render(opts.addr))
	printNextStep("Render", fmt.Sprintf(`curl -s localhost%s/api/render -d '{"expression":"a AND b"}'`, opts.addr))

	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache picks the cache backend from the flags.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		c.Logger.Info("using redis cache", "addr", opts.redisAddr, "db", opts.redisDB)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: opts.redisAddr,
			DB:   opts.redisDB,
		})
	}
	return newCache(false)
}

// serveStore picks the layout store backend from the flags.
func (c *CLI) serveStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	c.Logger.Info("using mongodb store", "database", opts.mongoDB)
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      opts.mongoURI,
		Database: opts.mongoDB,
	})
}
