// The nstar program streams an archive across the mount and user namespaces of a container process.
package main

import (
	"errors"
	"log"
	"os"

	"git.ophivana.moe/security/crossing/crossing"
	"git.ophivana.moe/security/crossing/crossing/nsenter"
	"github.com/spf13/cobra"
)

func newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nstar <archiver path> <target pid> <user> <destination> [files to compress]",
		Short: "Run an archiver inside the mount namespace of a container process",

		// rejects malformed requests before anything is opened
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := crossing.ParseArgs(args)
			return err
		},
		DisableFlagParsing:    true,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		CompletionOptions:     cobra.CompletionOptions{DisableDefaultCmd: true},

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := crossing.Main(append([]string{os.Args[0]}, args...), nsenter.Joined()); err != nil {
				return err
			}
			return crossing.ErrUnreachable
		},
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("nstar: ")
	log.SetOutput(os.Stderr)

	cmd := newCommand()
	err := cmd.Execute()
	var usageError crossing.UsageError
	if errors.As(err, &usageError) {
		log.Println(err)
		log.SetPrefix("")
		log.Println("usage: " + cmd.UseLine())
	} else if err != nil {
		log.Println(err)
	}
	os.Exit(crossing.ExitCode(err))
}
