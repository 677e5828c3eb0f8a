package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/class-scheduler/internal/client"
	"github.com/example/class-scheduler/internal/protocol"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schedctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "localhost:1234", "scheduler address")
	timeout := fs.Duration("timeout", client.DefaultTimeout, "exchange timeout")
	raw := fs.Bool("raw", false, "print the response line unmodified")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: schedctl [flags] COMMAND [ARGS...]")
		fmt.Fprintln(stderr, "  ADD DAY HH:MM HH:MM ROOM CLASS DESC | REMOVE DAY HH:MM HH:MM ROOM")
		fmt.Fprintln(stderr, "  DISPLAY ALL|CLASS | EARLY_LECTURES ALL|CLASS | STOP")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := client.New(*addr).Send(ctx, strings.Join(fs.Args(), " "))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *raw {
		fmt.Fprintln(stdout, resp.String())
		return exitCode(resp)
	}
	return render(resp, stdout, stderr)
}

func render(resp protocol.Response, stdout, stderr io.Writer) int {
	switch {
	case resp.Status == protocol.StatusDisplay:
		listing, err := client.ParseDisplay(resp)
		fmt.Fprintf(stdout, "%s (%d)\n", listing.Scope, len(listing.Sessions))
		for _, session := range listing.Sessions {
			fmt.Fprintf(stdout, "  %-9s %s-%s  %-8s %-10s %s\n",
				session.Day, session.Start, session.End, session.Room, session.ClassName, session.Description)
		}
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	case client.IsTerminate(resp):
		fmt.Fprintln(stdout, "server acknowledged STOP")
	case resp.Status == protocol.StatusError:
		fmt.Fprintln(stderr, resp.Message)
	default:
		fmt.Fprintln(stdout, resp.Message)
	}
	return exitCode(resp)
}

func exitCode(resp protocol.Response) int {
	if resp.Status == protocol.StatusError {
		return 1
	}
	return 0
}
