package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/groupwallet/gate/internal/common"
	"github.com/groupwallet/gate/internal/config"
	"github.com/groupwallet/gate/internal/services/chain"
	"github.com/groupwallet/gate/internal/services/db"
	"github.com/groupwallet/gate/internal/services/ledger"
	"github.com/groupwallet/gate/internal/services/webhook"
	"github.com/groupwallet/gate/pkg/router"
	"github.com/groupwallet/gate/pkg/wallet"
)

func main() {
	log.Default().Println("launching gate...")

	env := flag.String("env", "", "path to .env file")

	port := flag.Int("port", 3000, "port to listen on")

	mode := flag.String("mode", "local", "dispatch mode (local or chain)")

	dbpath := flag.String("dbpath", ".", "base path for the local database")

	flag.Parse()

	ctx := context.Background()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if conf.SentryURL != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn: conf.SentryURL,
			// Set TracesSampleRate to 1.0 to capture 100%
			// of transactions for performance monitoring.
			// We recommend adjusting this value in production,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
	}

	voters, err := conf.VoterAddresses()
	if err != nil {
		log.Fatal(err)
	}

	proposers, err := conf.ProposerAddresses()
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Println("starting db service...")

	suffix := common.TableSuffix(conf.Address())

	var d *db.DB
	if conf.DBHost != "" {
		d, err = db.NewPostgresDB(suffix, conf.DBUser, conf.DBPassword, conf.DBName, conf.DBHost, conf.DBReaderHost)
	} else {
		d, err = db.NewDB(suffix, *dbpath)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer d.Close()

	wm := webhook.NewMessager(conf.WebhookURL, conf.WalletName, conf.WebhookURL != "")

	opts := []wallet.Option{
		wallet.WithStore(d),
		wallet.WithNotifier(wm),
	}

	if proposers != nil {
		opts = append(opts, wallet.WithProposers(proposers))
	}

	if conf.SelfGoverned {
		opts = append(opts, wallet.WithSelfGovernance())
	}

	duration := time.Duration(conf.VotingDuration) * time.Second

	var w *wallet.Wallet
	var lg *ledger.Ledger

	switch *mode {
	case "local":
		log.Default().Println("running in local ledger mode...")

		lg = ledger.New()

		w, err = wallet.New(conf.Address(), voters, duration, lg, opts...)
		if err != nil {
			log.Fatal(err)
		}

		lg.Register(w.Address(), w)
	case "chain":
		log.Default().Println("connecting to rpc...")

		pk, err := common.HexToPrivateKey(conf.DispatchKey)
		if err != nil {
			log.Fatal(err)
		}

		disp, err := chain.NewDispatcher(ctx, conf.RPCURL, pk)
		if err != nil {
			log.Fatal(err)
		}
		defer disp.Close()

		log.Default().Println("node running for chain: ", disp.ChainID().String())

		w, err = wallet.New(conf.Address(), voters, duration, disp, opts...)
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("unsupported mode (must be one of: local, chain)")
	}

	quitAck := make(chan error)

	log.Default().Println("starting api service...")

	api := router.NewServer(conf.APIKey, w, lg, d)

	go func() {
		quitAck <- api.Start(*port)
	}()

	log.Default().Println("listening on port: ", *port)

	for err := range quitAck {
		if err != nil {
			log.Fatal(err)
		}
	}
}
