package main

import (
	"flag"
	"os"

	"github.com/target/hrportal-go/internal/bootstrap"
)

func runLogout(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
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

	if err := portal.Auth.Logout(cmdCtx.Ctx); err != nil {
		return err
	}
	return writef(os.Stdout, "logged out; session state cleared\n")
}
