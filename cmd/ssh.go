package cmd

import (
	"context"
	"fmt"

	"hesiod53/core/config"
	"hesiod53/core/logger"
	"hesiod53/feature/sshkeys"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hesiodConf string

// sshCmd prints a user's SSH keys, for use as sshd's AuthorizedKeysCommand.
var sshCmd = &cobra.Command{
	Use:   "ssh USERNAME",
	Short: "Print the SSH public keys of a user",
	Long: `Ssh looks up the SSH public keys published for a user and prints one
key per line. The Hesiod domain is read from hesiod.conf (lhs + rhs).

A user without keys prints nothing and succeeds. Lookup failures exit non-zero.

Examples:
  # In sshd_config
  AuthorizedKeysCommand /usr/local/bin/hesiod53 ssh %u
  AuthorizedKeysCommandUser nobody`,
	Args: cobra.ExactArgs(1),
	RunE: runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&hesiodConf, "hesiod-conf", "", "Hesiod configuration file (default from HESIOD_CONF_FILE)")
	RootCmd.AddCommand(sshCmd)
}

func runSSH(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	path := cfg.Hesiod.ConfFile
	if hesiodConf != "" {
		path = hesiodConf
	}

	domain, err := sshkeys.FindDomain(path)
	if err != nil {
		return err
	}

	resolver, err := sshkeys.NewDNSResolver(cfg.Hesiod)
	if err != nil {
		return err
	}

	username := args[0]
	keys, err := sshkeys.NewClient(resolver, cfg.Hesiod, l).Fetch(ctx, username, domain)
	if err != nil {
		return fmt.Errorf("failed to fetch keys for %s: %w", username, err)
	}

	l.Debug("Fetched keys", zap.String("username", username), zap.Int("keys", len(keys)))

	out := cmd.OutOrStdout()
	for _, key := range keys {
		fmt.Fprintln(out, key)
	}
	return nil
}
