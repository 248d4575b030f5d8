package commands

import (
	"botwise/lib/serviceutil"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <question id> <answer letter>",
	Short: "Queues a question to be answered with the given letter.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		questionId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid question id %q: %w", args[0], err)
		}

		questions := openStore()
		defer questions.Close()

		q, err := questions.Add(cmd.Context(), questionId, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("queued question %d with answer %s (#%d)\n", q.QuestionID, q.AnswerLetter, q.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every queued question and its outcome.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		questions := openStore()
		defer questions.Close()

		all, err := questions.List(cmd.Context())
		if err != nil {
			questions.Close()
			serviceutil.Fatal("failed to list questions", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Question", "Answer", "Outcome", "Queued"})
		for _, q := range all {
			outcome := "pending"
			if q.Correct != nil && *q.Correct {
				outcome = "correct"
			} else if q.Correct != nil {
				outcome = "incorrect"
			}
			t.AppendRow(table.Row{
				q.ID,
				q.QuestionID,
				q.AnswerLetter,
				outcome,
				q.Created.Local().Format(time.DateTime),
			})
		}
		t.Render()
	},
}
