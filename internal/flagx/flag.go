// Package flagx lets several flag sets share os.Args: each component keeps
// only its own flags and parses those.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigEnvVar is consulted when no -c/-config flag is given.
const ConfigEnvVar = "DEPOSITKEEPER_CONFIG"

// FilterArgs keeps the allowedFlags of args together with their values.
// Flags match with one or two leading dashes, as in package flag, and may
// carry their value after '=' or as the next argument. The next argument is
// taken as a value only when it does not start with '-'. The result is
// never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, hasValue := strings.Cut(arg, "=")
		if !allowed[flagName(name)] {
			continue
		}
		out = append(out, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

func flagName(f string) string {
	return strings.TrimLeft(f, "-")
}

// ConfigPath returns the JSON config file named by -c or -config in
// os.Args, else $DEPOSITKEEPER_CONFIG, else "".
func ConfigPath() string {
	return ConfigPathFrom(os.Args[1:])
}

func ConfigPathFrom(args []string) string {
	var path string
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	return path
}
