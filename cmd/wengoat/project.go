package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alexjj/wen-goat/internal/api"
	"github.com/alexjj/wen-goat/internal/cache"
	"github.com/alexjj/wen-goat/internal/chart"
	"github.com/alexjj/wen-goat/internal/config"
	"github.com/alexjj/wen-goat/internal/domain"
	"github.com/alexjj/wen-goat/internal/logging"
	"github.com/alexjj/wen-goat/internal/sota"
)

func projectCommand() *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "print the milestone projection for a callsign",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "callsign", Aliases: []string{"c"}, Usage: "activator callsign", Required: true},
			&cli.Float64Flag{Name: "rate", Aliases: []string{"r"}, Usage: "planned points per week (defaults to projection.default_weekly_rate)"},
			&cli.StringFlag{Name: "target-date", Usage: "date to reach the next milestone by, YYYY-MM-DD"},
			&cli.StringFlag{Name: "chart", Usage: "write a PNG chart to this path"},
			&cli.BoolFlag{Name: "json", Usage: "print the full projection as JSON"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log upstream and cache activity"},
		},
		Action: runProject,
	}
}

func runProject(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !c.Bool("verbose") {
		cfg.Log.Level = "warn"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	req := domain.EvaluateRequest{
		Callsign:   c.String("callsign"),
		WeeklyRate: cfg.Projection.DefaultWeeklyRate,
	}
	if c.IsSet("rate") {
		req.WeeklyRate = c.Float64("rate")
	}
	if raw := c.String("target-date"); raw != "" {
		date, err := time.Parse(api.DateParamLayout, raw)
		if err != nil {
			return fmt.Errorf("--target-date must be formatted YYYY-MM-DD: %w", err)
		}
		req.TargetDate = &date
	}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.Redis.Addr != "" {
		client := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		defer client.Close()
		store = cache.NewRedisStore(client, cfg.Cache.Redis.Prefix)
	}
	upstream := sota.NewCachingClient(sota.NewClient(sota.Config{
		ActivatorsBaseURL: cfg.Upstream.ActivatorsBaseURL,
		SOTAAPIBaseURL:    cfg.Upstream.SOTAAPIBaseURL,
		Timeout:           cfg.Upstream.Timeout,
	}), store, logger)
	service := domain.NewService(upstream, upstream, domain.WithLogger(logger))

	ev, err := service.Evaluate(c.Context, req)
	if err != nil {
		return err
	}

	if path := c.String("chart"); path != "" {
		if err := writeChart(path, *ev); err != nil {
			return err
		}
		logger.Info("chart written", zap.String("path", path))
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewProjectionResponse(*ev))
	}
	for _, line := range domain.Narrative(*ev) {
		fmt.Fprintln(out, line)
	}
	return nil
}

func writeChart(path string, ev domain.Evaluation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := chart.RenderPNG(f, ev, chart.Options{}); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
