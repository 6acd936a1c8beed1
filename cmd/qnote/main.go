package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"

	"github.com/QuantNodeAI/quantnote-go/internal/store"
	"github.com/QuantNodeAI/quantnote-go/pkg/confkit"
	"github.com/QuantNodeAI/quantnote-go/pkg/quantnote"
)

const usageText = `usage: qnote [flags] <command>

Commands:
  assets    list the asset directory
  token     show token details for -symbol or -contract
  price     print the current token price
  candles   print raw candles for the requested range
  ohlcv     print merged candle and volume rows for the requested range
  ingest    mirror the asset directory and one candle series into Postgres

Flags:
`

func fatalf(format string, args ...interface{}) {
	logx.Errorf(format, args...)
	os.Exit(1)
}

func main() {
	var (
		configPath = flag.String("config", "etc/quantnote.yaml", "path to the client configuration file")
		chainName  = flag.String("chain", "", "chain name: bsc, eth, polygon, avax or ftm (token commands default to bsc)")
		symbol     = flag.String("symbol", "", "token symbol, resolved through the asset directory")
		contract   = flag.String("contract", "", "token contract address, wins over -symbol")
		resolution = flag.String("resolution", "H1", "series resolution, M1 through D1")
		from       = flag.String("from", "", "range start: RFC3339, YYYY-MM-DD or unix seconds")
		to         = flag.String("to", "", "range end, same formats as -from")
		watch      = flag.Duration("watch", 0, "ingest only: repeat on this interval instead of running once")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()
	logx.MustSetup(logx.LogConf{})
	logx.DisableStat()

	command := flag.Arg(0)
	if command == "" {
		flag.Usage()
		os.Exit(2)
	}

	confkit.LoadDotenvOnce()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		fatalf("read config %s: %v", *configPath, err)
	}
	cfg, err := quantnote.LoadConfigFromReader(bytes.NewReader(data))
	if err != nil {
		fatalf("load config %s: %v", *configPath, err)
	}
	client := cfg.BuildClient()

	ref := quantnote.TokenRef{
		Symbol:   *symbol,
		Contract: *contract,
		Chain:    quantnote.Chain(*chainName),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "assets":
		err = runAssets(ctx, client, quantnote.Chain(*chainName))
	case "token":
		err = runToken(ctx, client, ref)
	case "price":
		err = runPrice(ctx, client, ref)
	case "candles":
		err = runCandles(ctx, client, ref, quantnote.Resolution(*resolution), *from, *to)
	case "ohlcv":
		err = runOHLCV(ctx, client, ref, quantnote.Resolution(*resolution), *from, *to)
	case "ingest":
		var extra struct {
			Postgres store.Config `yaml:"postgres"`
		}
		if yamlErr := yaml.Unmarshal(data, &extra); yamlErr != nil {
			fatalf("load config %s: %v", *configPath, yamlErr)
		}
		archive, openErr := store.Open(extra.Postgres)
		if openErr != nil {
			fatalf("open archive: %v", openErr)
		}
		if schemaErr := archive.EnsureSchema(ctx); schemaErr != nil {
			fatalf("ensure schema: %v", schemaErr)
		}
		ing := &ingestor{
			client:     client,
			archive:    archive,
			ref:        ref,
			resolution: quantnote.Resolution(*resolution),
			from:       *from,
			interval:   *watch,
		}
		err = ing.run(ctx)
	default:
		fatalf("unknown command %q", command)
	}
	if err != nil && ctx.Err() == nil {
		fatalf("%s: %v", command, err)
	}
}

func runAssets(ctx context.Context, client *quantnote.Client, chain quantnote.Chain) error {
	assets, err := client.GetAssets(ctx, chain)
	if err != nil {
		return err
	}
	for _, asset := range assets {
		marker := " "
		if asset.IsDefault {
			marker = "*"
		}
		fmt.Printf("%s %-12s chain=%-6d %s\n", marker, asset.Symbol, asset.Chain, asset.Contract)
	}
	logx.Infof("listed %d assets", len(assets))
	return nil
}

func runToken(ctx context.Context, client *quantnote.Client, ref quantnote.TokenRef) error {
	token, err := client.GetToken(ctx, quantnote.TokenParams{TokenRef: ref, Extended: true})
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", token.Symbol, token.Name)
	fmt.Printf("  chain:       %d\n", token.Chain)
	fmt.Printf("  contract:    %s\n", token.Contract)
	fmt.Printf("  price_usd:   %s\n", token.PriceUSD)
	fmt.Printf("  market_cap:  %s\n", token.MarketCap)
	fmt.Printf("  liquidity:   %s\n", token.LiquidityUSD)
	fmt.Printf("  volume_24h:  %s\n", token.Volume24H)
	return nil
}

func runPrice(ctx context.Context, client *quantnote.Client, ref quantnote.TokenRef) error {
	price, err := client.GetPrice(ctx, quantnote.PriceParams{TokenRef: ref})
	if err != nil {
		return err
	}
	fmt.Println(price)
	return nil
}

func runCandles(ctx context.Context, client *quantnote.Client, ref quantnote.TokenRef, resolution quantnote.Resolution, from, to string) error {
	candles, err := client.GetCandles(ctx, quantnote.CandlesParams{
		SeriesParams: quantnote.SeriesParams{TokenRef: ref, From: from, To: to, Resolution: resolution},
	})
	if err != nil {
		return err
	}
	for _, candle := range candles {
		fmt.Printf("%s o=%s h=%s l=%s c=%s\n",
			candle.Time.Format(time.RFC3339), candle.Open, candle.High, candle.Low, candle.Close)
	}
	logx.Infof("%d candles", len(candles))
	return nil
}

func runOHLCV(ctx context.Context, client *quantnote.Client, ref quantnote.TokenRef, resolution quantnote.Resolution, from, to string) error {
	rows, err := client.GetOHLCV(ctx, quantnote.OHLCVParams{
		SeriesParams: quantnote.SeriesParams{TokenRef: ref, From: from, To: to, Resolution: resolution},
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%s o=%s h=%s l=%s c=%s v=%s\n",
			row.Time.Format(time.RFC3339), row.Open, row.High, row.Low, row.Close, row.Volume)
	}
	logx.Infof("%d rows", len(rows))
	return nil
}
