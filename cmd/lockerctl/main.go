// lockerctl is a terminal console for locker administrators. It talks to the
// server's admin API and follows the bubbletea Elm loop: messages from async
// API calls update the model, the view renders the current state.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	fs := flag.NewFlagSet("lockerctl", flag.ContinueOnError)

	serverURL := fs.String("server", "http://localhost:8080", "")
	token := fs.String("token", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: lockerctl [flags]

Flags:
  -server <url>   locker server base URL (default: http://localhost:8080)
  -token <tok>    admin bearer token (or LOCKERCTL_TOKEN)
  -h, -help       show this help and exit

Keys:
  up/down  select locker      r  refresh
  f        force release      m  toggle maintenance
  q        quit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if *token == "" {
		*token = os.Getenv("LOCKERCTL_TOKEN")
	}
	if v := os.Getenv("LOCKERCTL_SERVER"); v != "" && *serverURL == "http://localhost:8080" {
		*serverURL = v
	}
	if *token == "" {
		fmt.Fprintln(os.Stderr, "error: admin token required (-token or LOCKERCTL_TOKEN)")
		os.Exit(1)
	}

	client := newClient(*serverURL, *token)

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
