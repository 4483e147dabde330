package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/bibbank/mortgageflex/internal/infrastructure/config"
	"github.com/bibbank/mortgageflex/pkg/auth"
)

var knownRoles = []string{auth.RoleCustomer, auth.RoleAdvisor, auth.RoleAdmin}

type tokenOptions struct {
	userID         string
	roles          []string
	ttl            time.Duration
	privateKeyFile string
}

func (o tokenOptions) jwtConfig(cfg config.AuthConfig) (auth.JWTConfig, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer, TTL: o.ttl}
	switch {
	case o.privateKeyFile != "":
		pem, err := os.ReadFile(o.privateKeyFile)
		if err != nil {
			return auth.JWTConfig{}, fmt.Errorf("read private key: %w", err)
		}
		jwtCfg.PrivateKeyPEM = pem
	case cfg.Secret != "":
		jwtCfg.Secret = cfg.Secret
	default:
		return auth.JWTConfig{}, errors.New("set JWT_SECRET or pass --private-key-file")
	}
	return jwtCfg, nil
}

func issueToken(o tokenOptions, cfg config.AuthConfig, now time.Time) (string, error) {
	if o.userID == "" && !slices.Contains(o.roles, auth.RoleAdvisor) && !slices.Contains(o.roles, auth.RoleAdmin) {
		return "", errors.New("--user is required for customer tokens")
	}
	for _, r := range o.roles {
		if !slices.Contains(knownRoles, r) {
			return "", fmt.Errorf("unknown role %q", r)
		}
	}
	jwtCfg, err := o.jwtConfig(cfg)
	if err != nil {
		return "", err
	}
	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return "", err
	}
	return svc.Issue(o.userID, o.roles, now)
}

func tokenCmd() *cobra.Command {
	var o tokenOptions

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		Long: `Issue a bearer token for local testing.

Tokens are signed with JWT_SECRET (HS256) or an RSA private key (RS256).

Examples:
  mortgagectl token --user USER00001
  mortgagectl token --role advisor --ttl 15m --private-key-file key.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := issueToken(o, config.Load().Auth, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.userID, "user", "", "customer id the token acts as")
	f.StringSliceVar(&o.roles, "role", []string{auth.RoleCustomer}, "roles to grant (customer, advisor, admin)")
	f.DurationVar(&o.ttl, "ttl", time.Hour, "token lifetime")
	f.StringVar(&o.privateKeyFile, "private-key-file", "", "RSA private key in PEM form")
	return cmd
}
