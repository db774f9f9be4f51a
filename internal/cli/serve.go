package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/g6viz/internal/server"
)

// serveCommand creates the serve command that runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisURL  string
		mongoURI  string
		cacheDir  string
		rateLimit float64
		burst     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Settings are read from the environment (and a .env file when present), then
overridden by flags:

  G6VIZ_ADDR         listen address
  G6VIZ_REDIS_URL    Redis cache, e.g. redis://localhost:6379/0
  G6VIZ_CACHE_DIR    file cache directory when no Redis URL is set
  G6VIZ_MONGO_URI    Mongo render archive
  G6VIZ_MONGO_DB     Mongo database name
  G6VIZ_RATE_LIMIT   sustained requests per second per client`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.ConfigFromEnv()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr = addr
			}
			if f.Changed("redis") {
				cfg.RedisURL = redisURL
			}
			if f.Changed("mongo") {
				cfg.MongoURI = mongoURI
			}
			if f.Changed("cache-dir") {
				cfg.CacheDir = cacheDir
			}
			if f.Changed("rate-limit") {
				cfg.RateLimit = rateLimit
			}
			if f.Changed("burst") {
				cfg.Burst = burst
			}

			srv, err := server.Open(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return err
			}
			defer srv.Close()
			return srv.Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	f.StringVar(&redisURL, "redis", "", "Redis URL for the layout and artifact cache")
	f.StringVar(&mongoURI, "mongo", "", "MongoDB URI for the render archive")
	f.StringVar(&cacheDir, "cache-dir", "", "file cache directory (ignored with --redis)")
	f.Float64Var(&rateLimit, "rate-limit", server.DefaultRateLimit, "requests per second per client (0 disables)")
	f.IntVar(&burst, "burst", server.DefaultBurst, "rate limiter burst size")

	return cmd
}
