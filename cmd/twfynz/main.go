package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Psopho/twfynz/pkg/bill"
	"github.com/Psopho/twfynz/pkg/cache"
	"github.com/Psopho/twfynz/pkg/config"
	"github.com/Psopho/twfynz/pkg/organisation"
	"github.com/Psopho/twfynz/pkg/resolve"
	"github.com/Psopho/twfynz/pkg/slug"
	"github.com/Psopho/twfynz/pkg/store"
	"github.com/Psopho/twfynz/pkg/timeline"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "twfynz",
		Short: "New Zealand Parliament bill resolution",
		Long: `twfynz resolves bill names mentioned in Hansard and the order paper
to bill records, builds bill timelines and generates permanent slugs.

Records are read from a YAML dataset given with --data.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $"+config.EnvVar+")")
	rootCmd.PersistentFlags().String("data", "", "YAML dataset of bills, committees, members and debates")

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(resolveListCmd())
	rootCmd.AddCommand(findCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(slugCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(orgCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// environment is the configuration, logger and records shared by commands.
type environment struct {
	config  *config.Config
	logger  *slog.Logger
	records *store.Records
}

func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvVar)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.Logger(os.Stderr), nil
}

// loadEnvironment loads the config and the dataset. Records failing
// validation are logged and left out.
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dataPath, _ := cmd.Flags().GetString("data")
	if dataPath == "" {
		return nil, fmt.Errorf("--data flag is required")
	}
	ds, err := store.LoadDataset(dataPath)
	if err != nil {
		return nil, err
	}

	records := newRecords(cfg, logger)
	for _, err := range records.Load(ds) {
		logger.Warn("skipping record", "error", err)
	}
	return &environment{config: cfg, logger: logger, records: records}, nil
}

// newRecords builds an empty record set from the config. Later options
// override the configured ones.
func newRecords(cfg *config.Config, logger *slog.Logger, extra ...store.Option) *store.Records {
	var sink cache.Sink = cache.Discard
	if cfg.Cache.Root != "" {
		sink = cache.NewFileExpirer(cfg.Cache.Root, logger)
	}
	opts := []store.Option{
		store.WithLogger(logger),
		store.WithSink(sink),
		store.WithSlugGenerator(cfg.SlugGenerator()),
	}
	return store.New(append(opts, extra...)...)
}

func (env *environment) resolver() *resolve.Resolver {
	return resolve.NewResolver(env.records,
		resolve.WithLadder(env.config.Ladder()),
		resolve.WithLogger(env.logger),
		resolve.WithYearLookback(env.config.Resolve.YearLookback),
	)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse(bill.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printBill(b *bill.Bill) {
	fmt.Printf("%d\t%s\t%s\n", b.ID, b.Slug, b.Name)
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "Resolve a bill name mentioned on a date",
		Long: `Resolve a bill name as mentioned in a debate on the given date.

Example:
  twfynz resolve --data bills.yaml --date 2012-02-01 "Road User Charges Amendment Bill"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")
			asJSON, _ := cmd.Flags().GetBool("json")

			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			b, err := env.resolver().Resolve(args[0], date)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(b)
			}
			printBill(b)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Reference date, YYYY-MM-DD (default today)")
	cmd.Flags().Bool("json", false, "Print the bill as JSON")
	return cmd
}

func resolveListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve-list TEXT",
		Short: "Resolve every bill named in an order paper item",
		Long: `Resolve each bill in a list such as
"Taxation Bill, the Local Government Bill, and the Road User Charges Bill".

Names that cannot be resolved are reported and do not stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			failed := 0
			for _, result := range env.resolver().ResolveList(args[0], date) {
				if result.Err != nil {
					failed++
					fmt.Printf("-\t%s\t%v\n", result.Name, result.Err)
					continue
				}
				printBill(result.Bill)
			}
			if failed > 0 {
				return fmt.Errorf("%d bill names could not be resolved", failed)
			}
			return nil
		},
	}

	cmd.Flags().String("date", "", "Reference date, YYYY-MM-DD (default today)")
	return cmd
}

func findCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find NAME",
		Short: "Find bills by plain name and year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = time.Now().Year()
			}
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			bills := env.resolver().FindByPlainNameAndYear(args[0], year)
			if len(bills) == 0 {
				return fmt.Errorf("no bills match %q in or before %d: %w", args[0], year, bill.ErrNotFound)
			}
			for _, b := range bills {
				printBill(b)
			}
			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Year the bill was introduced (default this year)")
	return cmd
}

func timelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline SLUG",
		Short: "Print the legislative history of a bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			includeVersions, _ := cmd.Flags().GetBool("versions")
			showVotes, _ := cmd.Flags().GetBool("votes")
			asJSON, _ := cmd.Flags().GetBool("json")

			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			b, ok := env.records.BillBySlug(args[0])
			if !ok {
				return fmt.Errorf("bill %q: %w", args[0], bill.ErrNotFound)
			}

			builder := timeline.NewBuilder(env.records, timeline.Options{IncludeVersions: includeVersions})
			events := builder.Build(b)
			if asJSON {
				return printJSON(events)
			}

			fmt.Printf("%s (%s)\n", b.Name, currentLabel(env.records.IsCurrent(b)))
			for _, event := range events {
				fmt.Printf("  %s\t%s\n", event, event.Origin())
			}
			if last, ok := timeline.LastEvent(events); ok {
				fmt.Printf("last event: %s\n", last.Label)
			}

			if showVotes {
				for _, stage := range timeline.VotesByStage(env.records.DebateGroups(b)) {
					if len(stage.Votes) == 0 {
						continue
					}
					fmt.Printf("\n%s\n", stage.Label)
					for _, vote := range stage.Votes {
						fmt.Printf("  %s: %s (%d-%d)\n", vote.Question, vote.Result, vote.Ayes, vote.Noes)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("versions", false, "Include published versions of the bill text")
	cmd.Flags().Bool("votes", false, "Print the deciding votes at each stage")
	cmd.Flags().Bool("json", false, "Print events as JSON")
	return cmd
}

func currentLabel(current bool) string {
	if current {
		return "current"
	}
	return "not current"
}

func slugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slug NAME",
		Short: "Generate the slug for a bill name",
		Long: `Generate the permanent slug for a bill name. With --data the slug is
checked against existing bills and the year appended on collision.

Example:
  twfynz slug "Privacy (Cross-Border Information) Amendment Bill"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			dataPath, _ := cmd.Flags().GetString("data")

			var exists slug.ExistsFunc
			var generator *slug.Generator
			if dataPath != "" {
				env, err := loadEnvironment(cmd)
				if err != nil {
					return err
				}
				exists = env.records.SlugTaken
				generator = env.config.SlugGenerator()
			} else {
				cfg, _, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				generator = cfg.SlugGenerator()
			}

			fmt.Println(generator.Bill(args[0], year, exists))
			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Year appended when the slug is taken")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset",
		Long: `Load a dataset, applying creation rules to every bill, and report the
records that fail validation.

With --expire the cached pages of every valid bill are deleted from the
configured cache root. Without a cache root the pages that would be
deleted are listed. With --watch the dataset is validated again each time
it changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			expire, _ := cmd.Flags().GetBool("expire")
			dataPath, _ := cmd.Flags().GetString("data")
			if dataPath == "" {
				return fmt.Errorf("--data flag is required")
			}

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ds, err := store.LoadDataset(dataPath)
			if err != nil {
				return err
			}

			var recorder *cache.Recorder
			check := func(ds *store.Dataset) int {
				var opts []store.Option
				if expire && cfg.Cache.Root == "" {
					recorder = &cache.Recorder{}
					opts = append(opts, store.WithSink(recorder))
				}
				records := newRecords(cfg, logger, opts...)
				errs := records.Load(ds)
				for _, err := range errs {
					fmt.Printf("invalid: %v\n", err)
				}
				bills := records.Bills()
				if expire {
					for _, b := range bills {
						if err := records.Expire(b); err != nil {
							logger.Error("expiring cached pages", "bill", b.Slug, "error", err)
						}
					}
					if recorder != nil {
						for _, inv := range recorder.Events() {
							fmt.Printf("would expire: %s (%s)\n", strings.Join(inv.Keys, ", "), inv.Reason)
						}
						fmt.Printf("%d cached pages would expire\n", len(recorder.Keys()))
					}
				}
				fmt.Printf("%d bills valid, %d records invalid\n", len(bills), len(errs))
				return len(errs)
			}

			invalid := check(ds)
			if !watch {
				if invalid > 0 {
					return fmt.Errorf("%d records failed validation", invalid)
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			logger.Info("watching dataset", "path", dataPath)
			err = store.Watch(ctx, dataPath, logger, func(ds *store.Dataset) {
				check(ds)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().Bool("watch", false, "Validate again whenever the dataset changes")
	cmd.Flags().Bool("expire", false, "Delete cached pages for every valid bill")
	return cmd
}

func orgCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "org NAME",
		Short: "Find the organisation named in a submission title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}

			o, err := organisation.NewResolver(env.records).FromName(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d\t%s\t%s\t%s\n", o.ID, o.Slug, o.Category(), o.Name)
			fmt.Printf("  mentions searched as: %s\n", strings.Join(o.SearchNames(), ", "))
			return nil
		},
	}
}
