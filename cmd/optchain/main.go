package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"

	"github.com/rxtech-lab/argo-optchain/internal/chain"
	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/internal/version"
	"github.com/rxtech-lab/argo-optchain/pkg/marketdata"
	"github.com/rxtech-lab/argo-optchain/pkg/marketdata/provider"
)

func main() {
	cmd := &cli.Command{
		Name:    "optchain",
		Usage:   "Pre-warm a local cache of daily option chain history",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:   "download",
				Usage:  "Download the underlying and every option chain its monthly ranges call for",
				Flags:  append(configFlags(), &cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Hide the progress bar and info logs"}),
				Action: downloadAction,
			},
			{
				Name:   "ranges",
				Usage:  "Print the monthly ranges, expirations and strike bounds without fetching chains",
				Flags:  configFlags(),
				Action: rangesAction,
			},
			{
				Name:      "identifier",
				Usage:     "Build or parse an option chain identifier",
				ArgsUsage: "[identifier]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Usage: "Underlying ticker"},
					&cli.TimestampFlag{
						Name:   "expiration",
						Usage:  "Expiration in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{Layouts: []string{types.DateLayout}},
					},
					&cli.IntFlag{Name: "strike", Usage: "Whole strike"},
					&cli.StringFlag{Name: "type", Value: "C", Usage: "C or P"},
				},
				Action: identifierAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the download config file",
				Action: func(_ context.Context, _ *cli.Command) error {
					schema, err := marketdata.GetDownloadConfigSchema()
					if err != nil {
						return err
					}

					fmt.Println(schema)

					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the version and cache layout version",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Printf("optchain %s (cache layout %s)\n", version.GetVersion(), version.CacheLayoutVersion)

					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to a YAML download config"},
		&cli.StringFlag{Name: "token", Aliases: []string{"t"}, Usage: "API token (overrides config and environment)"},
		&cli.StringFlag{Name: "passphrase", Usage: "Passphrase for encryptedApiToken", Sources: cli.EnvVars("OPTCHAIN_PASSPHRASE")},
		&cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Usage: "Underlying ticker (e.g. SPY)"},
		&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Calendar year"},
		&cli.FloatFlag{Name: "margin", Aliases: []string{"m"}, Usage: "Strike margin around the monthly range", Value: marketdata.DefaultStrikeMargin},
		&cli.StringFlag{Name: "dump", Aliases: []string{"d"}, Usage: "Cache root directory", Value: marketdata.DefaultDumpPath},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Data provider to use (%s)", strings.Join(marketdata.GetSupportedProviders(), ", ")),
			Value:   string(marketdata.ProviderTradier),
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: fmt.Sprintf("Cache file format (%s or %s)", marketdata.FormatCSV, marketdata.FormatParquet),
			Value: string(marketdata.FormatCSV),
		},
		&cli.StringFlag{Name: "base-url", Usage: "Override the provider API root (e.g. the Tradier sandbox)"},
	}
}

// loadConfig merges the config file, the environment and explicitly set flags, in that order.
func loadConfig(cmd *cli.Command) (*marketdata.DownloadConfig, error) {
	config, err := marketdata.LoadDownloadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("token") {
		config.ApiToken = cmd.String("token")
	}

	if cmd.IsSet("symbol") {
		config.Symbol = cmd.String("symbol")
	}

	if cmd.IsSet("year") {
		config.Year = int(cmd.Int("year"))
	}

	if cmd.IsSet("margin") {
		config.StrikeMargin = cmd.Float("margin")
	}

	if cmd.IsSet("dump") {
		config.DumpPath = cmd.String("dump")
	}

	if cmd.IsSet("provider") {
		config.Provider = cmd.String("provider")
	}

	if cmd.IsSet("format") {
		config.Format = cmd.String("format")
	}

	if cmd.IsSet("base-url") {
		config.BaseURL = cmd.String("base-url")
	}

	if err := config.ResolveToken(cmd.String("passphrase")); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func newClient(cmd *cli.Command, config *marketdata.DownloadConfig, onProgress provider.OnDownloadProgress) (*marketdata.Client, *logger.Logger, error) {
	level := zapcore.InfoLevel
	if cmd.Bool("quiet") {
		level = zapcore.WarnLevel
	}

	appLogger, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	clientConfig := config.ToClientConfig()
	clientConfig.Logger = appLogger

	client, err := marketdata.NewClient(clientConfig, onProgress)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create market data client: %w", err)
	}

	return client, appLogger, nil
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onProgress := func(current float64, total float64, message string) {
		if cmd.Bool("quiet") {
			return
		}

		if bar == nil {
			bar = progressbar.NewOptions64(int64(total),
				progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s %d chains", config.Symbol, config.Year)),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(100*time.Millisecond),
			)
		}

		_ = bar.Set64(int64(current))
	}

	client, appLogger, err := newClient(cmd, config, onProgress)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	summary, err := client.Download(ctx, config.ToDownloadParams())
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	if err != nil {
		return err
	}

	fmt.Printf("Cached %d chains for %s %d under %s (%d empty, %d rows)\n",
		summary.Chains, config.Symbol, config.Year, client.DumpPath(), summary.Empty, summary.Rows)

	return nil
}

func rangesAction(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, appLogger, err := newClient(cmd, config, nil)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	plans, err := client.Plan(ctx, config.ToDownloadParams())
	if err != nil {
		return err
	}

	fmt.Printf("%-5s %10s %10s %12s %8s %8s %7s\n", "MONTH", "LOW", "HIGH", "EXPIRATION", "MIN", "MAX", "CHAINS")

	for _, plan := range plans {
		minStrike, maxStrike := "-", "-"
		if len(plan.Strikes) > 0 {
			minStrike = fmt.Sprint(plan.Strikes[0])
			maxStrike = fmt.Sprint(plan.Strikes[len(plan.Strikes)-1])
		}

		month := plan.Month.String()[:3]
		if plan.Range.Extrapolated {
			month += "*"
		}

		fmt.Printf("%-5s %10.2f %10.2f %12s %8s %8s %7d\n",
			month,
			plan.Range.Low,
			plan.Range.High,
			plan.Expiration.Format(types.DateLayout),
			minStrike,
			maxStrike,
			plan.ChainCount(),
		)
	}

	return nil
}

func identifierAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 0 {
		key, err := chain.Parse(cmd.Args().First())
		if err != nil {
			return err
		}

		fmt.Printf("symbol=%s expiration=%s type=%s strike=%d\n",
			key.Symbol, key.Expiration.Format(types.DateLayout), key.Type, key.Strike)

		return nil
	}

	optionType, err := types.ParseOptionType(cmd.String("type"))
	if err != nil {
		return err
	}

	id, err := chain.Build(types.ChainKey{
		Symbol:     cmd.String("symbol"),
		Expiration: cmd.Timestamp("expiration"),
		Strike:     int(cmd.Int("strike")),
		Type:       optionType,
	})
	if err != nil {
		return err
	}

	fmt.Println(id)

	return nil
}
