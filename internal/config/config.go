package config

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	WalletName    string `env:"WALLET_NAME,default=gate"`
	WalletAddress string `env:"WALLET_ADDRESS,required"`

	// comma separated hex addresses
	Voters    string `env:"VOTERS,required"`
	Proposers string `env:"PROPOSERS"`

	// seconds
	VotingDuration int64 `env:"VOTING_DURATION,default=86400"`

	SelfGoverned bool `env:"SELF_GOVERNED,default=false"`

	APIKey     string `env:"API_KEY,required"`
	SentryURL  string `env:"SENTRY_URL"`
	WebhookURL string `env:"WEBHOOK_URL"`

	RPCURL      string `env:"RPC_URL,default=http://localhost:8545"`
	DispatchKey string `env:"DISPATCH_PRIVATE_KEY"`

	DBUser       string `env:"DB_USER"`
	DBPassword   string `env:"DB_PASSWORD"`
	DBName       string `env:"DB_NAME"`
	DBHost       string `env:"DB_HOST"`
	DBReaderHost string `env:"DB_READER_HOST"`
}

func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.Default().Println("loading env from file: ", envpath)
		err := godotenv.Load(envpath)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := envconfig.Process(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Address returns the wallet's own address
func (c *Config) Address() common.Address {
	return common.HexToAddress(c.WalletAddress)
}

// VoterAddresses parses the configured voter list
func (c *Config) VoterAddresses() ([]common.Address, error) {
	return parseAddressList(c.Voters)
}

// ProposerAddresses parses the configured proposer list, nil when unset
func (c *Config) ProposerAddresses() ([]common.Address, error) {
	if c.Proposers == "" {
		return nil, nil
	}

	return parseAddressList(c.Proposers)
}

func parseAddressList(s string) ([]common.Address, error) {
	addrs := []common.Address{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !common.IsHexAddress(part) {
			return nil, errors.New("invalid address in list: " + part)
		}

		addrs = append(addrs, common.HexToAddress(part))
	}

	if len(addrs) == 0 {
		return nil, errors.New("empty address list")
	}

	return addrs, nil
}
