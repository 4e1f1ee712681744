package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/integrii/flaggy"
)

var (
	flagHelp    bool
	flagNoColor bool
	flagNoClip  bool
	flagDebug   bool
	flagFile    string
)

const usage = `Usage:
  List all available services:
  $ tvault -list

  Add SERVICE to available services and show its current code:
  $ tvault -add SERVICE SECRET

  Remove SERVICE from available services:
  $ tvault -del SERVICE

  Show the stored secret key for SERVICE:
  $ tvault -secret SERVICE

  Change vault password:
  $ tvault -chpass

  Encrypt the vault to the public key KEYID:
  $ tvault -recipient KEYID

  Go back to password (symmetric) encryption:
  $ tvault -symmetric

  Run the dialog-driven flow:
  $ tvault -gui

  Generate TOTP for SERVICE:
  $ tvault SERVICE
`

// commandWords is the closed command vocabulary. Anything else not shaped
// like a flag is taken as a bare service name.
var commandWords = map[string]bool{
	"-list":      true,
	"-add":       true,
	"-del":       true,
	"-secret":    true,
	"-chpass":    true,
	"-recipient": true,
	"-symmetric": true,
	"-gui":       true,
}

// parseCli parses the global flags and returns the command with its
// arguments. The command vocabulary is dash-prefixed, so the split between
// flags and command words happens here, before flaggy sees anything.
func parseCli() []string {
	defaultFilePath := defaultVaultPath()
	flagFile = defaultFilePath

	parser := flaggy.NewParser("tvault")
	parser.Bool(&flagNoColor, "", "no-color", "Turn off color output")
	parser.Bool(&flagNoClip, "", "no-clip", "Do not copy generated codes to the clipboard")
	parser.Bool(&flagDebug, "", "debug", "Trace external tool invocations on stderr")
	parser.Bool(&flagHelp, "h", "help", "Show help")
	parser.String(&flagFile, "f", "file", "The vault file to open (can be set by $TVAULT)")

	parser.ShowHelpWithHFlag = false
	parser.ShowHelpOnUnexpected = false

	parser.DisableShowVersionWithVersion()
	if err := parser.SetHelpTemplate(helpTemplate); err != nil {
		// This should never occur
		panic(err)
	}
	parser.AdditionalHelpAppend = usage

	var flagArgs, command []string
	rest := os.Args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if commandWords[arg] || !strings.HasPrefix(arg, "-") {
			command = rest[i:]
			break
		}
		flagArgs = append(flagArgs, arg)
		if (arg == "-f" || arg == "--file") && i+1 < len(rest) {
			i++
			flagArgs = append(flagArgs, rest[i])
		}
	}
	parser.ParseArgs(flagArgs)

	if flagFile == defaultFilePath {
		envFile := os.Getenv("TVAULT")
		if len(envFile) != 0 {
			flagFile = envFile
		}
	}

	if flagHelp {
		parser.ShowHelp()
		os.Exit(0)
	}

	return command
}

// defaultVaultPath prefers the user configuration directory, falling back to
// a dotfile in the home directory when it does not exist.
func defaultVaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			return filepath.Join(dir, "tvault")
		}
	}
	if home, err := os.UserHomeDir(); err == nil && len(home) != 0 {
		return filepath.Join(home, ".tvault")
	}
	return ".tvault"
}

var helpTemplate = `Usage:
  {{.CommandName}} [flags] [command]
{{- if .Flags}}

Flags:
  {{- range .Flags}}
  {{if .ShortName}}-{{.ShortName}}{{if .LongName}}, {{else}}  {{end}}{{else}}    {{end}}{{printf "--%-15s" .LongName}}
  {{- if .Description}} {{.Description}}{{end}}
  {{- if and (.DefaultValue) (not (eq "false" .DefaultValue))}} ({{.DefaultValue}}){{end}}
  {{- end -}}
{{- end}}{{if .AppendMessage}}

{{.AppendMessage}}
{{- end}}
`
