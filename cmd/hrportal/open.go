package main

import (
	"flag"
	"os"

	"github.com/target/hrportal-go/internal/bootstrap"
	"github.com/target/hrportal-go/internal/guard"
)

func runOpen(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
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

	decision, enterErr := portal.Guard.Enter(cmdCtx.Ctx)
	switch decision {
	case guard.DecisionAllow:
		return writef(os.Stdout, "allow: session verified, status %s\n", portal.Sessions.Status())
	case guard.DecisionRedirectToLogin:
		if enterErr != nil {
			cmdCtx.Logger.Info("entry denied", "error", enterErr)
		}
		return writef(os.Stdout, "redirect: %s\n", cmdCtx.Config.Auth.LoginPath)
	default:
		return writef(os.Stdout, "wait: verification still in flight\n")
	}
}
