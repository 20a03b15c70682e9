package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bagucv/bagbot-engine/pkg/models"
)

var askMode string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the terminal",
	Long: `Answer one question with the same pipeline the server uses and print the reply.

Example:
  bagbot ask "libros de Lopez"
  bagbot ask --mode free_query "¿Qué es una tesis?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", string(models.ChatModeResourceSearch), "chat mode identifier")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	mode, err := models.ParseChatMode(askMode)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.db.Close()

	question := strings.Join(args, " ")
	spinner, _ := pterm.DefaultSpinner.Start("Consultando a Bagbot...")
	turns, err := a.chat.Reply(ctx, mode, question)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	if len(turns) < 2 {
		spinner.Fail("sin respuesta")
		return errors.New("no reply produced")
	}
	spinner.Success(mode.Label())

	reply := strings.ReplaceAll(turns[1].Text, "<br>", "\n")
	pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(question)).
		WithPadding(1).
		Println(reply)
	return nil
}
