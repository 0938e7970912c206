// Package main содержит точку входа logmonitor: CLI, который читает
// записи журнала и рассылает уведомления в Mattermost и по email.
//
// Использование:
//
//	app | logmonitor run --config /etc/logmonitor.yaml
//	logmonitor validate -o json
//	logmonitor send -m "диск заполнен" --channel ops --priority urgent
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kargones/logmonitor/internal/constants"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run выполняет CLI и возвращает exit code. os.Exit вызывается только в
// main, чтобы отработали defer-ы: shutdown трейсинга и push метрик.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return constants.ExitFailure
	}
	return constants.ExitOK
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Route log events to Mattermost and email",
		Long: `logmonitor решает, какие записи журнала требуют внимания людей,
и доставляет их в каналы Mattermost с резервной отправкой по email.

Конфигурация читается из YAML файла (--config или LOG_MONITOR_CONFIG)
и переопределяется переменными окружения LOG_MONITOR_*, APP_NAME, APP_ENV.`,
		Version:       constants.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to YAML config (default $"+constants.EnvConfigPath+")")
	root.PersistentFlags().StringVarP(&c.outputFormat, "output", "o", "", "Output format: text, json (default $"+constants.EnvOutputFormat+")")

	root.AddCommand(c.runCmd())
	root.AddCommand(c.sendCmd())
	root.AddCommand(c.validateCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", constants.AppName, constants.Version, constants.PreCommitHash)
		},
	}
}
