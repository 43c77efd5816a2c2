// goproot runs a command inside a virtual rootfs assembled from a real
// host directory plus a set of guest/host bindings, translating the
// paths the traced program sees the way PRoot does.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pathtrace/goproot/config"
	"github.com/pathtrace/goproot/extension"
	"github.com/pathtrace/goproot/path"
	"github.com/pathtrace/goproot/supervisor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "goproot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var rootfs string
	var binds []string
	var configPath string
	var verbose bool

	flagSet := pflag.NewFlagSet("goproot", pflag.ContinueOnError)
	flagSet.StringVarP(&rootfs, "rootfs", "r", "", "host directory to present as the guest's \"/\"")
	flagSet.StringArrayVarP(&binds, "bind", "b", nil, "guest:host binding, repeatable")
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML file describing rootfs and bindings")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every intercepted path-bearing syscall")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("no command given")
	}

	bindings := path.NewTable()

	if configPath != "" {
		root, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if rootfs == "" {
			rootfs = root.Rootfs
		}
		bindings = root.BuildTable()
	}

	for _, spec := range binds {
		guest, host, err := parseBind(spec)
		if err != nil {
			return err
		}
		bindings.Insert(path.Binding{GuestPath: guest, HostPath: host})
	}

	if rootfs == "" {
		return fmt.Errorf("--rootfs or a --config rootfs entry is required")
	}

	hooks := extension.NewRegistry()
	if verbose {
		hooks.Add(extension.LoggingHook(os.Stderr))
	}

	sup := &supervisor.Supervisor{
		Root:     rootfs,
		Bindings: bindings,
		Hooks:    hooks,
		Command:  args,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}

	if err := sup.Start(); err != nil {
		return err
	}
	return sup.Wait()
}

// parseBind splits a "guest:host" binding flag value. A bare path with
// no colon binds it to itself, matching PRoot's own "-b /dev" shorthand.
func parseBind(spec string) (guest, host string, err error) {
	if idx := strings.IndexByte(spec, ':'); idx >= 0 {
		guest, host = spec[:idx], spec[idx+1:]
	} else {
		guest, host = spec, spec
	}
	if guest == "" || host == "" {
		return "", "", fmt.Errorf("invalid bind spec %q", spec)
	}
	return guest, host, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: goproot --rootfs DIR [--bind GUEST:HOST]... [--config FILE] COMMAND [ARGS...]")
	flagSet.PrintDefaults()
}
