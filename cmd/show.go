package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hesiod53/core/config"
	"hesiod53/core/logger"
	"hesiod53/core/reconcile"
	"hesiod53/core/route53"
	"hesiod53/feature/directory"
	"hesiod53/feature/directory/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// showCmd lists the directory currently published in a zone.
var showCmd = &cobra.Command{
	Use:   "show USER_FILE",
	Short: "List the users and groups published in the zone",
	Long: `Show reads the zone and domain from a user file, then lists the users
and groups currently published there, parsed back from their passwd and
group records. The users and groups of the file itself are not used.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	RootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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

	src, err := directory.Load(args[0])
	if err != nil {
		return err
	}

	store, err := route53.NewStore(ctx, cfg.Route53)
	if err != nil {
		return fmt.Errorf("failed to create route53 client: %w", err)
	}

	l = logger.WithRun(l, src.Zone, src.Domain)
	reconciler := reconcile.NewReconciler(store, cfg.Commit, l)
	spec := reconcile.Spec{Zone: src.Zone, Domain: src.Domain, Suffixes: directory.Suffixes}

	// Planning against an empty set lists every owned record for removal.
	_, plan, err := reconciler.Plan(ctx, spec, reconcile.NewRecordSet())
	if err != nil {
		return err
	}

	users, groups := published(l, plan.ToRemove, src.Domain)

	out := cmd.OutOrStdout()
	printUsers(out, users)
	printGroups(out, groups)
	return nil
}

// published parses the passwd and group records of domain. Unparsable records
// are logged and skipped.
func published(l *zap.Logger, records []reconcile.Record, domain string) ([]*models.PasswdEntry, []publishedGroup) {
	domain = reconcile.Canonical(domain)

	var users []*models.PasswdEntry
	var groups []publishedGroup
	for _, r := range records {
		switch {
		case strings.HasSuffix(r.FQDN, ".passwd."+domain):
			u, err := models.ParsePasswdLine(r.Value)
			if err != nil {
				l.Warn("Skipping unparsable passwd record", zap.String("name", r.FQDN), zap.Error(err))
				continue
			}
			users = append(users, u)
		case strings.HasSuffix(r.FQDN, ".group."+domain):
			g, members, err := models.ParseGroupLine(r.Value)
			if err != nil {
				l.Warn("Skipping unparsable group record", zap.String("name", r.FQDN), zap.Error(err))
				continue
			}
			groups = append(groups, publishedGroup{Group: g, Members: members})
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group.GID < groups[j].Group.GID })
	return users, groups
}
