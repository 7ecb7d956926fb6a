package main

import (
	"strings"
	"time"

	"click-collect/orderclient"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "CLICKCOLLECT"

// app holds what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	logger *zap.SugaredLogger
	client *orderclient.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "clickcollect",
		Short:         "Order ahead and pick up at the counter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "http://localhost:8080/api", "order API base URL")
	flags.Duration("poll-interval", 30*time.Second, "how often track re-fetches the order")
	flags.Bool("verbose", false, "log API requests to stderr")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		newRestaurantsCmd(a),
		newMenuCmd(a),
		newSlotsCmd(),
		newOrderCmd(a),
		newTrackCmd(a),
		newCollectCmd(a),
		newReviewCmd(a),
	)
	return root
}

// init resolves settings from flags, CLICKCOLLECT_* variables and .env, in
// that order of precedence.
func (a *app) init() error {
	_ = godotenv.Load()
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	a.logger = zap.NewNop().Sugar()
	if a.v.GetBool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		a.logger = l.Sugar()
	}

	a.client = orderclient.New(a.v.GetString("api-url"), orderclient.WithLogger(a.logger))
	return nil
}
