package commands

import (
	"botwise/internal/bot"
	"botwise/internal/peerwise"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(checkAuthCmd)
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Runs the bot a single time right now instead of on the schedule.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd.Context())
		defer a.close()

		err := finishRun(a.bot().Run(cmd.Context()))
		if err != nil {
			a.fatal("run failed", err)
		}
	},
}

var checkAuthCmd = &cobra.Command{
	Use:   "check-auth",
	Short: "Logs in to PeerWise to check the configured credentials.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := setup(cmd.Context())
		defer a.close()

		err := a.checkAuth(cmd.Context())
		if err != nil {
			a.fatal("auth check failed", err)
		}
		slog.Info("auth is all good")
	},
}

// finishRun logs how a run ended, an *peerwise.AnswerError only ends the
// current run so it is not returned.
func finishRun(state bot.State, err error) error {
	var answerErr *peerwise.AnswerError
	switch {
	case err == nil:
		slog.Info("run finished", "state", state.String())
	case errors.As(err, &answerErr):
		slog.Warn("run ended early, question left for the next run", "state", state.String(), "err", err)
	default:
		return err
	}
	return nil
}
