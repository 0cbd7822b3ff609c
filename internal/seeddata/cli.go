package seeddata

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
)

// NewCommand returns the seed-data root command.
func NewCommand() *cobra.Command {
	cfg := &Config{}
	var shape string
	var jsonLogs bool

	cmd := &cobra.Command{
		Use:   "seed-data",
		Short: "Submit monitoring readings with a known trend and verify the classification",
		Long: `seed-data generates readings for new seniors whose scores follow the chosen
shape, posts them to /monitoring and waits until /monitoring/{user_id}/stats
reports the same trend for every senior.`,
		Example: `  seed-data --shape declining --users 20
  seed-data --url http://localhost:9080 --shape stable --readings 30 --output readings.json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(c *cobra.Command, _ []string) error {
			l, err := ParseShape(shape)
			if err != nil {
				return err
			}
			cfg.Shape = l
			if cfg.Workers < 1 {
				cfg.Workers = 1
			}
			if cfg.Users < 1 {
				cfg.Users = 1
			}
			if cfg.Readings < MinReadings {
				return fmt.Errorf("--readings must be at least %d", MinReadings)
			}
			return logger.Init(logger.WithJSON(jsonLogs), logger.WithOutput(c.ErrOrStderr()))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := Run(cmd.Context(), cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the server")
	f.IntVar(&cfg.Users, "users", DefaultUsers, "number of seniors to generate")
	f.IntVar(&cfg.Readings, "readings", DefaultReadings, "readings per senior")
	f.StringVar(&cfg.DataType, "type", DefaultDataType, "monitoring data type")
	f.StringVar(&shape, "shape", "declining", "score trajectory: improving, stable or declining")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	f.DurationVar(&cfg.Wait, "wait", DefaultWait, "how long to wait for ingestion")
	f.StringVar(&cfg.Output, "output", "", "write generated readings to this JSON file")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every verified senior")
	f.BoolVar(&jsonLogs, "json", false, "emit JSON logs")
	return cmd
}
