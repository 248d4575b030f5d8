package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botwise",
	Short: "botwise answers queued PeerWise questions on a schedule.",
	Long: `botwise answers queued PeerWise questions on a schedule.

Without a subcommand it checks the credentials, then answers questions every
time PEERWISE_SCHEDULE fires until it is interrupted. Configuration is read
from the environment, see PEERWISE_* and DATABASE_PATH.`,
	Args: cobra.NoArgs,
	Run:  serve,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
