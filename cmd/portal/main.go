package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-portal/internal/app"
	"github.com/samvad-hq/samvad-portal/internal/config"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/pkg/apiclient"
	"github.com/samvad-hq/samvad-portal/pkg/sanitizer"
)

const usage = `usage: portal <command> [flags]

commands:
  sign-in  -data '{"email":"...","password":"..."}'
  sign-up  -data '{...}'
  sign-out
  whoami
  sanitize -file icon.svg   (reads stdin when -file is omitted)
  icons
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var serverErr *apiclient.ServerError
		if errors.As(err, &serverErr) {
			fmt.Fprintf(os.Stderr, "portal: server rejected request: %s\n", serverErr.Payload)
		} else {
			fmt.Fprintf(os.Stderr, "portal: %v\n", err)
		}
		os.Exit(1)
	}
}

// commands that need config and a portal runtime.
var portalCommands = map[string]bool{
	"sign-in":  true,
	"sign-up":  true,
	"sign-out": true,
	"whoami":   true,
	"icons":    true,
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}
	cmd, rest := args[0], args[1:]

	// sanitize is pure and needs no config.
	if cmd == "sanitize" {
		return runSanitize(rest, stdin, stdout, stderr)
	}
	if !portalCommands[cmd] {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	data := fs.String("data", "{}", "JSON payload for sign-in/sign-up")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	log := logger.New(sugar)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal, err := app.NewPortal(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize portal", "error", err)
		return err
	}
	defer portal.Close()

	switch cmd {
	case "sign-in", "sign-up":
		var body map[string]any
		if err := json.Unmarshal([]byte(*data), &body); err != nil {
			return fmt.Errorf("parse -data: %w", err)
		}
		call := portal.Sessions().SignIn
		if cmd == "sign-up" {
			call = portal.Sessions().SignUp
		}
		payload, err := call(ctx, body)
		if err != nil {
			return err
		}
		return writeJSON(stdout, payload)
	case "sign-out":
		return portal.Sessions().SignOut(ctx)
	case "whoami":
		return writeJSON(stdout, map[string]any{"signed_in": portal.Sessions().SignedIn()})
	case "icons":
		rendered, err := portal.LoadIcons(ctx)
		if len(rendered) > 0 {
			if werr := writeJSON(stdout, rendered); werr != nil {
				return werr
			}
		}
		return err
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runSanitize(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sanitize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "markup file to sanitize")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open markup: %w", err)
		}
		defer f.Close()
		in = f
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read markup: %w", err)
	}
	return writeJSON(stdout, sanitizer.SafeMarkup(string(raw)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
