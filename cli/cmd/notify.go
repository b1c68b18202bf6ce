package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/adapter"
	redisadapter "github.com/justapithecus/arenaviz/adapter/redis"
	"github.com/justapithecus/arenaviz/adapter/webhook"
	"github.com/justapithecus/arenaviz/cli/config"
)

// Adapter defaults when neither flags nor config set them.
const (
	defaultAdapterTimeout = 10 * time.Second
	defaultAdapterRetries = 3
)

// AdapterFlags returns the archive notification flags. They override the
// adapter section of the config file.
func AdapterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "adapter",
			Usage: "Notify on completion: webhook or redis",
		},
		&cli.StringFlag{
			Name:  "adapter-url",
			Usage: "Webhook endpoint or redis:// URL",
		},
		&cli.StringFlag{
			Name:  "adapter-channel",
			Usage: "Redis pub/sub channel (default " + redisadapter.DefaultChannel + ")",
		},
		&cli.StringSliceFlag{
			Name:  "adapter-header",
			Usage: "Webhook header as Key=Value (repeatable)",
		},
		&cli.DurationFlag{
			Name:  "adapter-timeout",
			Usage: "Per-attempt timeout (default 10s)",
		},
		&cli.IntFlag{
			Name:  "adapter-retries",
			Usage: "Retries after a failed attempt (default 3)",
		},
	}
}

// adapterSettings merges the adapter flags over the config file.
func adapterSettings(c *cli.Context, cfg *config.Config) (config.AdapterConfig, error) {
	ac := cfg.Adapter
	if c.IsSet("adapter") {
		ac.Type = c.String("adapter")
	}
	if c.IsSet("adapter-url") {
		ac.URL = c.String("adapter-url")
	}
	if c.IsSet("adapter-channel") {
		ac.Channel = c.String("adapter-channel")
	}
	if c.IsSet("adapter-header") {
		headers := make(map[string]string, len(ac.Headers))
		for k, v := range ac.Headers {
			headers[k] = v
		}
		for _, h := range c.StringSlice("adapter-header") {
			k, v, ok := strings.Cut(h, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return ac, fmt.Errorf("invalid --adapter-header %q: want Key=Value", h)
			}
			headers[strings.TrimSpace(k)] = v
		}
		ac.Headers = headers
	}
	if c.IsSet("adapter-timeout") {
		ac.Timeout = config.Duration{Duration: c.Duration("adapter-timeout")}
	}
	if c.IsSet("adapter-retries") {
		n := c.Int("adapter-retries")
		ac.Retries = &n
	}
	return ac, nil
}

// buildNotifier creates every configured adapter: the primary one first,
// then the config file's notify list. It returns nil when none is set, and
// an adapter.Multi when more than one is, along with the adapter types
// joined by commas.
func buildNotifier(primary config.AdapterConfig, extra []config.AdapterConfig) (adapter.Adapter, string, error) {
	var (
		built adapter.Multi
		types []string
	)
	for i, ac := range append([]config.AdapterConfig{primary}, extra...) {
		a, err := buildAdapter(ac)
		if err != nil {
			_ = built.Close()
			if i > 0 {
				return nil, "", fmt.Errorf("notify[%d]: %w", i-1, err)
			}
			return nil, "", err
		}
		if a != nil {
			built = append(built, a)
			types = append(types, ac.Type)
		}
	}

	switch len(built) {
	case 0:
		return nil, "", nil
	case 1:
		return built[0], types[0], nil
	default:
		return built, strings.Join(types, ","), nil
	}
}

// buildAdapter creates the configured adapter, or nil when none is set.
func buildAdapter(ac config.AdapterConfig) (adapter.Adapter, error) {
	if ac.Type == "" {
		if ac.URL != "" {
			return nil, fmt.Errorf("--adapter is required with --adapter-url")
		}
		return nil, nil
	}
	if ac.URL == "" {
		return nil, fmt.Errorf("--adapter-url is required for the %s adapter", ac.Type)
	}

	timeout := ac.Timeout.Duration
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	retries := defaultAdapterRetries
	if ac.Retries != nil {
		retries = *ac.Retries
	}

	switch ac.Type {
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     ac.URL,
			Headers: ac.Headers,
			Timeout: timeout,
			Retries: retries,
		})
	case "redis":
		return redisadapter.New(redisadapter.Config{
			URL:     ac.URL,
			Channel: ac.Channel,
			Timeout: timeout,
			Retries: retries,
		})
	default:
		return nil, fmt.Errorf("unsupported adapter: %s (must be webhook or redis)", ac.Type)
	}
}
