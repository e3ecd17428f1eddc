package main

import (
	"io"
	"log"
	"os"

	azcorelog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/andrew-kemp/AzureVirtualDesktop/cmd"
	"github.com/mattn/go-colorable"
	"github.com/spf13/pflag"
)

func main() {
	restoreColorMode := colorable.EnableColorsStdout(nil)
	defer restoreColorMode()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if isDebugEnabled() {
		azcorelog.SetListener(func(event azcorelog.Event, msg string) {
			log.Printf("%s: %s\n", event, msg)
		})
	} else {
		log.SetOutput(io.Discard)
	}

	if err := cmd.Execute(os.Args[1:]); err != nil {
		// cobra already printed the error; exit nonzero so scripts can react.
		os.Exit(1)
	}
}

// isDebugEnabled checks the raw arguments for --debug, before cobra has parsed anything,
// so SDK logging can be wired up front.
func isDebugEnabled() bool {
	debug := false
	flags := pflag.NewFlagSet("debug-detect", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.BoolVar(&debug, "debug", false, "")

	// Error handling here is a no-op, we only care whether --debug was present.
	_ = flags.Parse(os.Args[1:])

	return debug
}
