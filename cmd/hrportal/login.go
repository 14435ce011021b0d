package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/target/hrportal-go/internal/bootstrap"
	"github.com/target/hrportal-go/internal/ports"
)

func runLogin(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (read from stdin when omitted)")
	remember := fs.Bool("remember", false, "persist the remember-me preference")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		*password = pw
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

	id, err := portal.Auth.Login(cmdCtx.Ctx, ports.Credentials{
		Email:      *email,
		Password:   *password,
		RememberMe: *remember,
	})
	if err != nil {
		return err
	}

	return writef(os.Stdout, "logged in as %s <%s> (%s); continue at %s\n",
		id.DisplayName, id.Email, id.Role, cmdCtx.Config.Auth.LandingPath)
}

func readPassword() (string, error) {
	if err := writef(os.Stderr, "password: "); err != nil {
		return "", err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
