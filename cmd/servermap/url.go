package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"servermap/internal/domain"
	"servermap/internal/filtermap"
)

var urlFlags struct {
	from        string
	mainApp     string
	mainType    string
	period      string
	endDateTime string
	fromApp     string
	fromType    string
	toApp       string
	toType      string
	withErrors  bool
	hintLabel   string
	rpcs        []string
	absolute    bool
}

// urlCmd composes a filtered map address
var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Compose a filtered map address",
	Long: `Composes the address that results from adding a filter (and optionally a
hint) to a navigation state. The state is empty unless --from names an
existing address.

Example:
  servermap url --app frontend --type TOMCAT --from-app frontend \
    --from-type TOMCAT --to-app api --to-type TOMCAT \
    --hint-label api --rpc http://api/a:9050`,
	Args: cobra.NoArgs,
	RunE: runURL,
}

func init() {
	f := urlCmd.Flags()
	f.StringVar(&urlFlags.from, "from", "", "Existing address to extend")
	f.StringVar(&urlFlags.mainApp, "app", "", "Main application (defaults to the --from address)")
	f.StringVar(&urlFlags.mainType, "type", "", "Main application service type")
	f.StringVar(&urlFlags.period, "period", "", "Readable period, e.g. 5m (defaults to config)")
	f.StringVar(&urlFlags.endDateTime, "end", "", "Query end date time")
	f.StringVar(&urlFlags.fromApp, "from-app", "", "Filter source application")
	f.StringVar(&urlFlags.fromType, "from-type", "", "Filter source service type")
	f.StringVar(&urlFlags.toApp, "to-app", "", "Filter target application")
	f.StringVar(&urlFlags.toType, "to-type", "", "Filter target service type")
	f.BoolVar(&urlFlags.withErrors, "include-exception", false, "Only show failed calls")
	f.StringVar(&urlFlags.hintLabel, "hint-label", "", "Node label the hint applies to")
	f.StringArrayVar(&urlFlags.rpcs, "rpc", nil, "Hint entry as rpc:code (repeatable)")
	f.BoolVar(&urlFlags.absolute, "absolute", false, "Prefix the address with explorer.base_url")
}

func runURL(cmd *cobra.Command, args []string) error {
	merger := filtermap.New(filtermap.WithLogger(logger.Named("filtermap")))

	nav := domain.Navigation{
		Period:      urlFlags.period,
		EndDateTime: urlFlags.endDateTime,
	}
	mainApp, mainType := urlFlags.mainApp, urlFlags.mainType

	if urlFlags.from != "" {
		parsed, err := merger.ParseAddress(urlFlags.from)
		if err != nil {
			return err
		}
		nav.Filters = parsed.Filter()
		nav.Hints = parsed.Hint()
		if nav.Period == "" {
			nav.Period = parsed.Period
		}
		if nav.EndDateTime == "" {
			nav.EndDateTime = parsed.EndDateTime
		}
		if mainApp == "" {
			mainApp, mainType = parsed.MainApplication, parsed.MainServiceTypeName
		}
	}
	if nav.Period == "" {
		nav.Period = cfg.Explorer.DefaultPeriod
	}
	if mainApp == "" || mainType == "" {
		return fmt.Errorf("--app and --type are required without --from")
	}
	if urlFlags.toApp == "" || urlFlags.toType == "" || urlFlags.fromType == "" {
		return fmt.Errorf("--from-type, --to-app and --to-type are required")
	}

	filter := domain.Filter{
		FromApplication:     urlFlags.fromApp,
		FromServiceType:     urlFlags.fromType,
		ToApplication:       urlFlags.toApp,
		ToServiceType:       urlFlags.toType,
		IncludeException:    urlFlags.withErrors,
		MainApplication:     mainApp,
		MainServiceTypeName: mainType,
	}

	hint, err := parseHintFlags(urlFlags.hintLabel, urlFlags.rpcs)
	if err != nil {
		return err
	}

	address, err := merger.FilteredMapURL(nav, filter, hint)
	if err != nil {
		return err
	}
	if urlFlags.absolute {
		address = strings.TrimSuffix(cfg.Explorer.BaseURL, "/") + "/" + address
	}

	fmt.Fprintln(cmd.OutOrStdout(), address)
	return nil
}

// parseHintFlags builds a hint update from --hint-label and rpc:code pairs.
// The code follows the last colon, so rpc values may contain colons.
func parseHintFlags(label string, rpcs []string) (domain.HintUpdate, error) {
	if label == "" {
		if len(rpcs) > 0 {
			return domain.HintUpdate{}, fmt.Errorf("--rpc requires --hint-label")
		}
		return domain.HintUpdate{}, nil
	}

	entries := make([]domain.HintEntry, 0, len(rpcs))
	for _, r := range rpcs {
		i := strings.LastIndex(r, ":")
		if i < 0 {
			return domain.HintUpdate{}, fmt.Errorf("invalid --rpc %q: want rpc:code", r)
		}
		code, err := strconv.Atoi(r[i+1:])
		if err != nil {
			return domain.HintUpdate{}, fmt.Errorf("invalid --rpc %q: %w", r, err)
		}
		entries = append(entries, domain.HintEntry{RPC: r[:i], RPCServiceTypeCode: code})
	}
	return domain.NewHintUpdate(label, entries...), nil
}

var decodeOutput string

// decodeCmd prints the state carried by an address
var decodeCmd = &cobra.Command{
	Use:   "decode <address>",
	Short: "Print the state carried by a filtered map address",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "yaml", "Output format: json or yaml")
}

// nodeHint keeps hint labels in address order for printing
type nodeHint struct {
	Label   string             `json:"label" yaml:"label"`
	Entries []domain.HintEntry `json:"entries" yaml:"entries"`
}

type decodedAddress struct {
	MainApplication     string          `json:"mainApplication" yaml:"mainApplication"`
	MainServiceTypeName string          `json:"mainServiceTypeName" yaml:"mainServiceTypeName"`
	Period              string          `json:"period" yaml:"period"`
	EndDateTime         string          `json:"endDateTime" yaml:"endDateTime"`
	Filters             []domain.Filter `json:"filters" yaml:"filters"`
	Hints               []nodeHint      `json:"hints,omitempty" yaml:"hints,omitempty"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	merger := filtermap.New(filtermap.WithLogger(logger.Named("filtermap")))
	parsed, err := merger.ParseAddress(args[0])
	if err != nil {
		return err
	}

	out := decodedAddress{
		MainApplication:     parsed.MainApplication,
		MainServiceTypeName: parsed.MainServiceTypeName,
		Period:              parsed.Period,
		EndDateTime:         parsed.EndDateTime,
		Filters:             parsed.Filters,
	}
	for _, label := range parsed.LongHint.Keys() {
		entries, _ := parsed.LongHint.Get(label)
		out.Hints = append(out.Hints, nodeHint{Label: label, Entries: entries})
	}

	w := cmd.OutOrStdout()
	switch decodeOutput {
	case "json":
		data, err := domain.EncodeJSON(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown output format %q", decodeOutput)
	}
}
