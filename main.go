package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/interp"
	"github.com/ham-lang/hamgo/lexer"
	"github.com/ham-lang/hamgo/parser"
	"github.com/ham-lang/hamgo/reader"
)

var plog = capnslog.NewPackageLogger("github.com/ham-lang/hamgo", "main")

const mainSkeleton = `fn main() {
	println("Hello from Ham")
}

main()
`

// fail reports err and exits. Language errors get a one line diagnostic,
// anything else is an internal failure and gets its trace.
func fail(err error) {
	if _, ok := errors.AsCore(err); ok {
		fmt.Fprintln(os.Stderr, errors.Describe(err))
	} else {
		tracerr.PrintSourceColor(err)
	}
	os.Exit(1)
}

func readSource(c *cli.Context) (string, string) {
	file := c.Args().First()
	if file == "" {
		fmt.Fprintln(os.Stderr, "no file provided")
		os.Exit(1)
	}
	data, err := ioutil.ReadFile(file)
	if err != nil {
		fail(tracerr.Wrap(err))
	}
	return string(data), file
}

func main() {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	capnslog.SetGlobalLogLevel(capnslog.WARNING)

	app := &cli.App{
		Name:  "ham",
		Usage: "ham language interpreter",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log interpreter activity to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				capnslog.SetGlobalLogLevel(capnslog.DEBUG)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a .ham file or a project directory",
				ArgsUsage: "<file.ham|dir>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "maximum call depth before a stack overflow error",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						path = "."
					}
					project, err := reader.Load(path)
					if err != nil {
						fail(err)
					}

					settings := interp.Settings{
						Filename: project.Entry,
						Output:   os.Stdout,
					}
					if project.Manifest != nil {
						settings.MaxCallDepth = project.Manifest.MaxCallDepth
					}
					if c.IsSet("max-depth") {
						depth := c.Int("max-depth")
						if depth <= 0 || depth > interp.MaxCallDepthLimit {
							fmt.Fprintf(os.Stderr, "--max-depth must be between 1 and %d\n", interp.MaxCallDepthLimit)
							os.Exit(1)
						}
						settings.MaxCallDepth = depth
					}

					v, err := interp.Evaluate(project.Source, settings)
					if err != nil {
						fail(err)
					}
					plog.Debugf("program finished with %s", repr.String(v))
					return nil
				},
			},
			{
				Name:      "init",
				Usage:     "create a ham.yml project in the current directory",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						fmt.Fprintln(os.Stderr, "no project name provided")
						os.Exit(1)
					}
					err := reader.WriteManifest(".", reader.Manifest{
						Name:    name,
						Version: "0.1.0",
						Main:    reader.DefaultMain,
					})
					if err != nil {
						fail(err)
					}
					if _, err := os.Stat(reader.DefaultMain); os.IsNotExist(err) {
						err = ioutil.WriteFile(filepath.Join(".", reader.DefaultMain), []byte(mainSkeleton), 0644)
						if err != nil {
							fail(tracerr.Wrap(err))
						}
					}
					return nil
				},
			},
			{
				Name:      "tokens",
				Usage:     "dump the tokens of a file",
				ArgsUsage: "<file.ham>",
				Action: func(c *cli.Context) error {
					src, file := readSource(c)
					toks, err := lexer.Tokenize(src, file)
					if err != nil {
						fail(err)
					}
					for _, tok := range toks {
						fmt.Println(tok)
					}
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of a file",
				ArgsUsage: "<file.ham>",
				Action: func(c *cli.Context) error {
					src, file := readSource(c)
					prog, err := parser.ParseString(src, file)
					if err != nil {
						fail(err)
					}
					repr.Println(prog)
					return nil
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fail(err)
	}
}
