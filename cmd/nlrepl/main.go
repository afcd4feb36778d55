package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/nestlex/binding"
	"github.com/npillmayer/nestlex/grammar"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// traceKeys are the tracers of nestlex packages, adjusted by flag --trace.
var traceKeys = []string{
	"nestlex.nlrepl",
	"nestlex.binding",
	"nestlex.grammar",
	"nestlex.lexer",
	"nestlex.cursor",
}

// main() starts an interactive CLI ("nlrepl"), where users may enter lines of
// text to be scanned. Text given as arguments is scanned once, without
// entering interactive mode.
func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(2)
	}
}

func rootCommand() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "nlrepl [text…]",
		Short: "Interactive sandbox for nested-language scanners",
		Long: `nlrepl scans lines of text with a scanner for a mime-type and
prints the tokens found, descending into embedded regions.

Grammars are read from the directory given by --grammars; demo grammars
for text/x-template and text/x-expr are always available.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, args)
		},
	}
	registerFlags(root.Flags(), v)
	return root
}

func registerFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.StringP("grammars", "g", "", "Directory of grammar files")
	fs.StringP("mime", "m", "text/x-template", "Initial mime-type")
	fs.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fs.Bool("watch", false, "Reload grammars when their files change")
	v.SetEnvPrefix("NESTLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, v *viper.Viper, args []string) error {
	initDisplay()
	level := tracing.TraceLevelFromString(v.GetString("trace"))
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", v.GetString("trace"))
	//
	// set up grammar sources: files take precedence over demo grammars
	demos := demoGrammars()
	var dir *grammar.DirSource
	chain := grammar.Chain{}
	if d := v.GetString("grammars"); d != "" {
		dir = grammar.NewDirSource(nil, d)
		chain = append(chain, dir)
	}
	chain = append(chain, demos)
	reg := binding.NewRegistry(chain)
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if dir != nil && v.GetBool("watch") {
		go func() {
			if err := binding.Watch(ctx, reg, dir.Dir()); err != nil {
				tracer().Errorf("%v", err)
			}
		}()
	}
	intp := &Intp{
		reg:   reg,
		dir:   dir,
		demos: demos,
		out:   os.Stdout,
	}
	if err := intp.switchTo(v.GetString("mime")); err != nil {
		return err
	}
	if input := strings.TrimSpace(strings.Join(args, " ")); input != "" {
		intp.Scan(input)
		return nil
	}
	pterm.Info.Println("Welcome to nlrepl")
	tracer().Infof("Quit with <ctrl>D")
	return intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	pterm.Error.Println(err.Error())
	return err
}
