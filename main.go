package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/dataconv/internal/config"
	"github.com/mcncl/dataconv/internal/converter"
	"github.com/mcncl/dataconv/internal/errors"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	From        string `help:"Input format: csv, json or xml. Inferred from the input file extension when omitted." short:"f"`
	To          string `help:"Output format: csv, json or xml." short:"t"`
	Config      string `help:"Path to config file. Defaults to the nearest .dataconv.yml." short:"c" type:"path"`
	Delimiter   string `help:"CSV field delimiter (default ';')."`
	Enclosure   string `help:"CSV field enclosure (default '\"')."`
	NoHeader    bool   `help:"Treat the first CSV row as data instead of field names."`
	Root        string `help:"Name of the XML root element (default 'root')."`
	PrevKey     string `help:"Element name for unkeyed list items in XML (default 'data')."`
	TagCase     string `help:"Rewrite XML element names: snake, kebab, camel or lower_camel."`
	Indent      string `help:"Indent JSON and XML output with this string."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

type format string

const (
	formatCSV  format = "csv"
	formatJSON format = "json"
	formatXML  format = "xml"
)

type conversion func(c *converter.Converter, xml config.XMLConfig) (string, error)

// conversions maps each pair of distinct formats to its converter operation
var conversions = map[[2]format]conversion{
	{formatCSV, formatJSON}: func(c *converter.Converter, _ config.XMLConfig) (string, error) {
		return c.CSVToJSON()
	},
	{formatCSV, formatXML}: func(c *converter.Converter, xml config.XMLConfig) (string, error) {
		return c.CSVToXML(xml.RootNode, xml.PrevKey)
	},
	{formatJSON, formatCSV}: func(c *converter.Converter, _ config.XMLConfig) (string, error) {
		return c.JSONToCSV()
	},
	{formatJSON, formatXML}: func(c *converter.Converter, xml config.XMLConfig) (string, error) {
		return c.JSONToXML(xml.RootNode, xml.PrevKey)
	},
	{formatXML, formatCSV}: func(c *converter.Converter, _ config.XMLConfig) (string, error) {
		return c.XMLToCSV()
	},
	{formatXML, formatJSON}: func(c *converter.Converter, _ config.XMLConfig) (string, error) {
		return c.XMLToJSON()
	},
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("dataconv"),
		kong.Description("A tool to convert data between CSV, JSON and XML"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("dataconv version %s\n", converter.Version())
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load configuration", err)))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Dev.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if configPath != "" {
		logger.Debug("loaded configuration", "path", configPath)
	}

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg, Logger: logger})
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		fmt.Fprintf(os.Stderr, "\nFor help, run: dataconv --help\n")

		os.Exit(1)
	}
}

func overrides() config.Overrides {
	return config.Overrides{
		Delimiter: CLI.Delimiter,
		Enclosure: CLI.Enclosure,
		NoHeader:  CLI.NoHeader,
		RootNode:  CLI.Root,
		PrevKey:   CLI.PrevKey,
		TagCase:   CLI.TagCase,
		Indent:    CLI.Indent,
		Debug:     CLI.Debug,
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	// 1. Work out the formats
	from, err := inputFormat()
	if err != nil {
		return err
	}
	to, err := parseFormat(CLI.To)
	if err != nil {
		return err
	}

	// 2. Load the input into the converter
	conv := converter.NewWithConfig(cfg, converter.WithLogger(ctx.Logger))
	if err := loadInput(conv, from); err != nil {
		return err
	}

	// 3. Convert
	output, err := convert(conv, cfg, from, to)
	if err != nil {
		return err
	}

	// 4. Output the result
	return writeOutput(conv, to, output)
}

func parseFormat(name string) (format, error) {
	switch f := format(strings.ToLower(strings.TrimSpace(name))); f {
	case formatCSV, formatJSON, formatXML:
		return f, nil
	case "":
		return "", errors.NewInputError("no output format given, use -t csv|json|xml", errors.ErrUnknownFormat)
	default:
		return "", errors.NewInputError(fmt.Sprintf("unknown format '%s', want csv, json or xml", name), errors.ErrUnknownFormat)
	}
}

// inputFormat returns the -f format, or the one named by the input file's extension
func inputFormat() (format, error) {
	if CLI.From != "" {
		return parseFormat(CLI.From)
	}
	if CLI.Input == "" {
		return "", errors.NewInputError("cannot infer the format of stdin, use -f csv|json|xml", errors.ErrUnknownFormat)
	}
	ext := strings.TrimPrefix(filepath.Ext(CLI.Input), ".")
	if ext == "" {
		return "", errors.NewInputError(fmt.Sprintf("cannot infer the format of '%s', use -f csv|json|xml", CLI.Input), errors.ErrUnknownFormat)
	}
	return parseFormat(ext)
}

// convert runs the conversion from the loaded input to the target format.
// Same-format conversions go through the array, which normalizes the text.
func convert(conv *converter.Converter, cfg *config.Config, from, to format) (string, error) {
	if op, ok := conversions[[2]format{from, to}]; ok {
		return op(conv, cfg.XML)
	}

	var err error
	switch from {
	case formatCSV:
		opts := cfg.CSVOptions()
		_, err = conv.CSVToArray(opts.Delimiter, opts.HeaderMode)
	case formatJSON:
		_, err = conv.JSONToArray()
	case formatXML:
		_, err = conv.XMLToArray()
	}
	if err != nil {
		return "", err
	}

	switch to {
	case formatCSV:
		opts := cfg.CSVOptions()
		return conv.ArrayToCSV(opts.Delimiter, opts.Enclosure)
	case formatJSON:
		return conv.ArrayToJSON()
	default:
		return conv.ArrayToXML(cfg.XML.RootNode, cfg.XML.PrevKey)
	}
}

// loadInput reads the input file or stdin into the converter's slot for from
func loadInput(conv *converter.Converter, from format) error {
	if CLI.Input != "" {
		if _, err := os.Stat(CLI.Input); os.IsNotExist(err) {
			return errors.NewInputError(fmt.Sprintf("input file '%s' does not exist", CLI.Input), errors.ErrFileNotFound)
		}
		switch from {
		case formatCSV:
			return conv.LoadCSV(CLI.Input)
		case formatJSON:
			return conv.LoadJSON(CLI.Input)
		default:
			return conv.LoadXML(CLI.Input)
		}
	}

	text, err := readStdin()
	if err != nil {
		return err
	}
	switch from {
	case formatCSV:
		conv.SetCSV(text)
	case formatJSON:
		conv.SetJSON(text)
	default:
		conv.SetXML(text)
	}
	return nil
}

// readStdin reads piped input, or prompts for it in interactive mode
func readStdin() (string, error) {
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// writeOutput saves the converted text to the output file or prints it
func writeOutput(conv *converter.Converter, to format, output string) error {
	if CLI.Output != "" {
		var err error
		switch to {
		case formatCSV:
			err = conv.SaveCSV(CLI.Output)
		case formatJSON:
			err = conv.SaveJSON(CLI.Output)
		default:
			err = conv.SaveXML(CLI.Output)
		}
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Converted %s written to %s\n", strings.ToUpper(string(to)), CLI.Output)
		return nil
	}

	if _, err := fmt.Println(strings.TrimRight(output, "\n")); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste data and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "dataconv Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your data below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	data := builder.String()
	if strings.TrimSpace(data) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nConverting...")
	return data, nil
}
