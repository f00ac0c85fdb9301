// Command newsctl is a terminal front end for the newsroom API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/essentialtimes/newsroom/client"
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("newsctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		apiURL      = fs.String("api", getEnv("NEWSROOM_API", "http://localhost:5001/api"), "API base URL")
		sessionPath = fs.String("session", getEnv("NEWSROOM_SESSION", ""), "session file (default: user config dir)")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: newsctl [flags] <command> [args]")
		fmt.Fprintln(stderr, "\ncommands:")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-16s %s\n", c.name, c.help)
		}
		fmt.Fprintln(stderr, "\nflags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	path := *sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			fmt.Fprintln(stderr, "session path:", err)
			return 1
		}
		path = p
	}

	cmd, ok := lookup(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	env := &cmdEnv{
		api: client.New(*apiURL, client.WithSessionStore(client.NewFileStore(path))),
		out: stdout,
	}
	if err := cmd.run(ctx, env, fs.Args()[1:]); err != nil {
		var usage usageError
		switch {
		case errors.As(err, &usage):
			fmt.Fprintf(stderr, "usage: newsctl %s %s\n", cmd.name, cmd.usage)
			return 2
		case errors.Is(err, client.ErrSessionExpired):
			fmt.Fprintln(stderr, client.Localize(err))
			fmt.Fprintln(stderr, "newsctl login <email> <password>")
			return 1
		default:
			fmt.Fprintln(stderr, client.Localize(err))
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}
