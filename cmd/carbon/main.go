// Command carbon generates the Symplectic Elements HR and publications
// feeds from the data warehouse and delivers them to the Elements FTP
// server.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mitlibraries/carbon/feed"
	"github.com/mitlibraries/carbon/runner"
	"github.com/mitlibraries/carbon/version"

	_ "github.com/mitlibraries/carbon/storage/ftps"
	_ "github.com/mitlibraries/carbon/storage/local"
	_ "github.com/mitlibraries/carbon/storage/s3"
	_ "github.com/mitlibraries/carbon/storage/sftp"
)

// errRunFailed is returned once a failed run has been logged and reported.
var errRunFailed = errors.New("carbon run failed")

type flags struct {
	configPath         string
	feedType           string
	outputFile         string
	runConnectionTests bool
	ignoreSNSLogging   bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "carbon",
		Short: "Generate and deliver Symplectic Elements feeds",
		Long: `carbon reads people or articles from the data warehouse, renders them as
a Symplectic Elements XML feed and streams the feed to the Elements FTP
server, or to a local file with --output-file.

Configuration comes from a YAML file, .env files and the environment
(FEED_TYPE, SYMPLECTIC_FTP_PATH, SNS_TOPIC, SENTRY_DSN, WORKSPACE,
DATAWAREHOUSE_CLOUDCONNECTOR_JSON, SYMPLECTIC_FTP_JSON).`,
		Version:       version.Get().String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg runner.Config
			if err := runner.Load(f.configPath, &cfg); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			f.apply(cmd, &cfg)
			return run(cmd.Context(), &cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	fl.StringVar(&f.feedType, "feed-type", "", "feed to generate: "+strings.Join(feed.KindNames(), " or "))
	fl.StringVarP(&f.outputFile, "output-file", "o", "", "write the feed to this file instead of the transfer sink")
	fl.BoolVar(&f.runConnectionTests, "run-connection-tests", false, "check the warehouse and transfer connections and exit")
	fl.BoolVar(&f.ignoreSNSLogging, "ignore-sns-logging", false, "do not publish run notifications")
	return cmd
}

// apply overrides cfg with the flags given on the command line.
func (f *flags) apply(cmd *cobra.Command, cfg *runner.Config) {
	fl := cmd.Flags()
	if fl.Changed("feed-type") {
		cfg.FeedType = f.feedType
	}
	if fl.Changed("output-file") {
		cfg.OutputFile = f.outputFile
	}
	if fl.Changed("run-connection-tests") {
		cfg.RunConnectionTests = f.runConnectionTests
	}
	if fl.Changed("ignore-sns-logging") {
		cfg.IgnoreSNSLogging = f.ignoreSNSLogging
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
