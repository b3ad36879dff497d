package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/enescakir/emoji"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/pagecast/pagecast/pkg/chain"
	"github.com/pagecast/pagecast/pkg/config"
	"github.com/pagecast/pagecast/pkg/logs"
	"github.com/pagecast/pagecast/pkg/names"
	"github.com/pagecast/pagecast/pkg/page"
	"github.com/pagecast/pagecast/pkg/registry"
	"github.com/pagecast/pagecast/pkg/scan"
)

const usage = `Usage: pagecast [-config path] <command> [args]

Commands:
  scan <address>        fetch and normalize a verified contract's functions
  resolve <identifier>  classify a page identifier (address, page id, name)
  availability <name>   check whether a reserved name is free and quote it
`

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, zerolog.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logs.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch args[0] {
	case "scan":
		err = runScan(ctx, cfg, logger, args[1:])
	case "resolve":
		err = runResolve(ctx, cfg, logger, args[1:])
	case "availability":
		err = runAvailability(ctx, cfg, logger, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func runScan(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("scan takes exactly one contract address")
	}
	net := cfg.ActiveNetwork()

	source := scan.NewSource(net.Explorer.APIURL, net.Explorer.APIKey, logger)
	raw, err := source.FetchRawABI(ctx, args[0])
	if err != nil {
		return err
	}
	items := scan.Normalize(raw)

	logger.Info().Int("functions", len(items)).Msgf("%v Contract scanned", emoji.MagnifyingGlassTiltedLeft)
	for _, item := range items {
		fmt.Printf("%s  %s  %s\n", item.Selector, item.Mutability, item.ID)
	}
	return nil
}

func runResolve(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("resolve takes exactly one identifier")
	}
	id := args[0]

	kind := page.DetectIdentifierKind(id)
	fmt.Printf("%s: %s\n", id, kind)
	if kind != page.IdentifierReservedName {
		return nil
	}

	// Reserved names need the on-chain registry to resolve further
	reg, client, err := dialRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	// The service lowercases and trims, matching the availability path.
	pageID, err := names.NewService(reg, logger).Holder(ctx, id)
	if err != nil {
		return err
	}
	if pageID == (common.Hash{}) {
		fmt.Println("name is not reserved")
		return nil
	}
	fmt.Printf("page id: %s\n", pageID.Hex())
	return nil
}

func runAvailability(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("availability takes a name and optionally a month count")
	}
	name := args[0]
	months := int64(12)
	if len(args) > 1 {
		if _, err := fmt.Sscanf(args[1], "%d", &months); err != nil {
			return fmt.Errorf("invalid month count %q", args[1])
		}
	}

	reg, client, err := dialRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	svc := names.NewService(reg, logger)
	available, err := svc.CheckAvailability(ctx, name)
	if err != nil {
		return err
	}
	if !available {
		holder, err := svc.Holder(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("%q is taken by page %s\n", name, holder.Hex())
		return nil
	}

	premium, err := svc.IsPremium(ctx, name)
	if err != nil {
		return err
	}
	cost, err := svc.Cost(ctx, name, months)
	if err != nil {
		return err
	}
	fmt.Printf("%q is available (premium: %t, %d months: %s wei)\n", name, premium, months, cost)
	return nil
}

func dialRegistry(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*registry.Registry, *chain.Client, error) {
	net := cfg.ActiveNetwork()
	if net.RegistryAddress == "" {
		return nil, nil, fmt.Errorf("network '%s' has no registry_address configured", cfg.Network)
	}

	client, err := chain.Dial(ctx, net.RPCURL, logger,
		chain.WithConfirmTimeout(cfg.Chain.ConfirmTimeout),
		chain.WithPollInterval(cfg.Chain.PollInterval))
	if err != nil {
		return nil, nil, err
	}

	reg, err := registry.New(client, common.HexToAddress(net.RegistryAddress), logger)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return reg, client, nil
}
