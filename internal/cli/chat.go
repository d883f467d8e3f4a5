package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petasbytes/memagent/internal/runner"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Chat interactively on stdin (Ctrl-C to quit)",
		Args:  cobra.NoArgs,
		RunE:  runChatCmd,
	})
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	warnConfig()

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	r, err := newRunner(ctx, store)
	if err != nil {
		return err
	}
	return repl(ctx, r, cmd.InOrStdin(), cmd.OutOrStdout())
}

// repl reads one message per line until EOF or ctx is done.
func repl(ctx context.Context, r *runner.Runner, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Chat with your agent (Ctrl-C to quit)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("stdin read error", "error", err)
		}
	}()

outer:
	for {
		fmt.Fprint(out, "\u001b[94mYou\u001b[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			break outer
		case line, ok = <-inputCh:
			if !ok {
				fmt.Fprintln(out)
				break outer
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		turn, err := r.Chat(ctx, line)
		if turn != nil {
			fmt.Fprintf(out, "\u001b[93mAgent\u001b[0m: %s\n", turn.Reply)
		}
		if err != nil {
			logger.Error("turn failed", "error", err)
		}
	}
	return nil
}
