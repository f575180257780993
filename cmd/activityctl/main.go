// Command activityctl is a developer tool for the activity API: it mints
// access tokens against the local configuration and inspects slot tables.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Version kong.VersionFlag

	Token TokenCmd `cmd:"" help:"Mint an access token using the local JWT configuration."`
	Clock ClockCmd `cmd:"" help:"Show the server clock and current slot."`
	Slots SlotsCmd `cmd:"" help:"Print the reconciled slot table for a day."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("activityctl"),
		kong.Description("Activity slot service companion"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
