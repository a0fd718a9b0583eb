// Package main is an interactive smoke test for the session store. Point it
// at a backend (the stub under examples/stub-backend works), give it a
// login, and it walks the full lifecycle: hydrate, login, guard decisions,
// password change, logout.
//
// Run:
//
//	go run ./examples/stub-backend &
//	go run ./cmd/authclient-demo \
//	  -base-url http://localhost:8080 \
//	  -identifier ana@example.com -secret secret1
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	authclient "github.com/hrkit/authclient"
	"github.com/hrkit/authclient/guard"
	"github.com/hrkit/authclient/vault"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

func main() {
	var (
		baseURL    = flag.String("base-url", "http://localhost:8080", "backend base URL")
		configPath = flag.String("config", "", "optional YAML config file")
		identifier = flag.String("identifier", "", "login email")
		secret     = flag.String("secret", "", "login password")
		vaultPath  = flag.String("vault-file", "", "persist the credential to this file")
		passphrase = flag.String("vault-passphrase", "", "encrypt the credential file with this passphrase")
		newSecret  = flag.String("new-secret", "", "change the password to this value after login")
		timeout    = flag.Duration("timeout", 10*time.Second, "per-step timeout")
	)
	flag.Parse()

	if *identifier == "" || *secret == "" {
		failColor.Fprintln(os.Stderr, "both -identifier and -secret are required")
		os.Exit(2)
	}

	builder := authclient.New()
	if *configPath != "" {
		builder.WithConfigFile(*configPath)
	} else {
		cfg := authclient.DefaultConfig()
		cfg.API.BaseURL = *baseURL
		cfg.Audit.Enabled = true
		cfg.Metrics.Enabled = true
		builder.WithConfig(cfg)
	}
	if *vaultPath != "" {
		if *passphrase != "" {
			builder.WithVault(vault.NewEncryptedFile(*vaultPath, []byte(*passphrase)))
		} else {
			builder.WithVault(vault.NewFile(*vaultPath))
		}
	}
	builder.WithAuditSink(authclient.NewJSONWriterSink(os.Stderr))

	session, err := builder.Build()
	if err != nil {
		failColor.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	routes, err := guard.FromConfig(authclient.DefaultConfig().Routes)
	if err != nil {
		failColor.Fprintf(os.Stderr, "routes: %v\n", err)
		os.Exit(1)
	}

	step := func(name string, fn func(ctx context.Context) error) {
		headColor.Printf("== %s\n", name)
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			warnColor.Printf("   %v\n", err)
		} else {
			okColor.Println("   ok")
		}
		printSnapshot(session.Snapshot())
	}

	step("hydrate", session.Hydrate)
	step("login", func(ctx context.Context) error {
		return session.Login(ctx, *identifier, *secret)
	})

	headColor.Println("== guard decisions")
	snap := session.Snapshot()
	for _, path := range []string{"/login", "/dashboard", "/users/42", "/settings", "/nowhere"} {
		decision := routes.Authorize(snap, path)
		fmt.Printf("   %-14s -> %s", path, decision.Action)
		if decision.Target != "" {
			fmt.Printf(" %s", decision.Target)
		}
		fmt.Println()
	}

	if *newSecret != "" {
		step("change password", func(ctx context.Context) error {
			return session.ChangePassword(ctx, *secret, *newSecret)
		})
	}

	step("logout", session.Logout)

	headColor.Println("== metrics")
	for id, count := range session.MetricsSnapshot().Counters {
		if count > 0 {
			fmt.Printf("   %-28v %d\n", id, count)
		}
	}
}

func printSnapshot(snap authclient.Snapshot) {
	fmt.Printf("   phase=%s", snap.Phase)
	if snap.Identity != nil {
		fmt.Printf(" identity=%s role=%s", snap.Identity.DisplayName(), snap.Identity.Role)
	}
	if snap.LastError != "" {
		fmt.Printf(" lastError=%q", snap.LastError)
	}
	fmt.Println()
}
