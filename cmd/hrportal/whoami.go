package main

import (
	"flag"
	"os"
	"text/tabwriter"

	"github.com/target/hrportal-go/internal/bootstrap"
)

func runWhoAmI(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	portal, err := bootstrap.NewPortal(cmdCtx.Config, cmdCtx.Logger, bootstrap.PortalOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := portal.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("close portal failed", "error", closeErr)
		}
	}()

	id, err := portal.Auth.WhoAmI(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tNAME\tEMAIL\tROLE\tORG\n"); err != nil {
		return err
	}
	if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
		id.ID, id.DisplayName, id.Email, id.Role, id.OrganizationID); err != nil {
		return err
	}
	return tw.Flush()
}
