package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/advisor"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/catalog"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/logging"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type rootOptions struct {
	relayURL string
	anonKey  string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "farmchat",
		Short: "Agricultural AI advisor in the terminal",
		Long: `farmchat talks to the agriculture AI relay.

When the relay is unreachable or has no API key, answers come from the
built-in FAQ and diagnosis guidance and are marked [FAQ] instead of [AI].`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.relayURL, "relay-url", envOr("RELAY_URL", "http://localhost:8080"), "relay base URL, including any route prefix")
	root.PersistentFlags().StringVar(&opts.anonKey, "anon-key", os.Getenv("RELAY_ANON_KEY"), "bearer token sent to the relay")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "per-request timeout")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newStatusCmd(opts),
		newAskCmd(opts),
		newDiagnoseCmd(opts),
		newChatCmd(opts),
		newCropsCmd(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newAdvisor wires a conversation whose notifications go to stderr.
func (o *rootOptions) newAdvisor(cmd *cobra.Command) *advisor.Advisor {
	logger := logging.NewWithOutput(o.logLevel, cmd.ErrOrStderr())
	client := advisor.NewRelayClient(o.relayURL, o.anonKey, o.timeout, logger)
	notifier := advisor.NotifierFunc(func(n models.Notification) {
		fmt.Fprintf(cmd.ErrOrStderr(), "(%s) %s: %s\n", n.Level, n.Title, n.Message)
	})
	return advisor.New(client, notifier, logger)
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the relay and its AI model are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.newAdvisor(cmd)
			status := a.CheckConnection(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "relay %s: %s\n", opts.relayURL, status)
			return nil
		},
	}
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message...>",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.newAdvisor(cmd)
			before := len(a.Transcript())
			if _, err := a.Send(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			printReplies(cmd.OutOrStdout(), a.Transcript()[before:])
			return nil
		},
	}
}

func newDiagnoseCmd(opts *rootOptions) *cobra.Command {
	var crop, purpose, symptoms string

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Request a crop diagnosis",
		Example: `  farmchat diagnose --crop tomato --purpose disease --symptoms "잎에 갈색 반점"
  farmchat diagnose --crop 배추 --purpose "충해 진단"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := catalog.NewStatic().LookupCrop(crop)
			if !ok {
				return fmt.Errorf("unknown crop %q, see 'farmchat crops'", crop)
			}
			p, err := models.ParsePurpose(purpose)
			if err != nil {
				return err
			}

			a := opts.newAdvisor(cmd)
			report := a.Diagnose(cmd.Context(), c.Name, p, symptoms)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s · %s\n\n", marker(report.IsAI), c.Emoji, c.Name, p)
			fmt.Fprintln(out, report.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&crop, "crop", "", "crop ID or name")
	cmd.Flags().StringVar(&purpose, "purpose", models.PurposeDisease.ID(), "disease, pest, maturity or growth")
	cmd.Flags().StringVar(&symptoms, "symptoms", "", "free-text description of what you see")
	cmd.MarkFlagRequired("crop")
	return cmd
}

func newCropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "List the crops the diagnosis command accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for c := range catalog.NewStatic().Crops() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s %s\n", c.ID, c.Emoji, c.Name)
			}
			return nil
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation.

Commands:
  /retry  re-run the connection check
  /quit   leave the conversation`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := opts.newAdvisor(cmd)
			return runChat(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runChat(ctx context.Context, a *advisor.Advisor, in io.Reader, out io.Writer) error {
	printReplies(out, a.Transcript())
	fmt.Fprintf(out, "[status: %s]\n", a.CheckConnection(ctx))
	// The connection check may have added a notice.
	seen := len(a.Transcript())
	printReplies(out, a.Transcript()[1:seen])

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/retry":
			fmt.Fprintf(out, "[status: %s]\n", a.CheckConnection(ctx))
			tr := a.Transcript()
			printReplies(out, tr[seen:])
			seen = len(tr)
			continue
		}

		if _, err := a.Send(ctx, line); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		tr := a.Transcript()
		printReplies(out, tr[seen:])
		seen = len(tr)
	}
}

// printReplies writes the bot messages; user messages are already on screen.
func printReplies(out io.Writer, msgs []advisor.Message) {
	for _, m := range msgs {
		if m.Sender != advisor.SenderBot {
			continue
		}
		fmt.Fprintf(out, "%s %s\n", marker(m.IsAI), m.Text)
	}
}

func marker(isAI bool) string {
	if isAI {
		return "[AI]"
	}
	return "[FAQ]"
}
