package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/groupwallet/gate/pkg/multisig"
)

var ErrExecutionReverted = errors.New("execution reverted")

// Dispatcher sends executed proposals to a real chain. The configured key
// pays for and signs the transactions; return data is captured with a call
// before the transaction is sent.
type Dispatcher struct {
	rpc     *rpc.Client
	client  *ethclient.Client
	pk      *ecdsa.PrivateKey
	chainID *big.Int
}

func NewDispatcher(ctx context.Context, endpoint string, pk *ecdsa.PrivateKey) (*Dispatcher, error) {
	rpc, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := ethclient.NewClient(rpc)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{rpc, client, pk, chainID}, nil
}

func (d *Dispatcher) Close() {
	d.client.Close()
}

func (d *Dispatcher) ChainID() *big.Int {
	return d.chainID
}

// Dispatch implements multisig.Dispatcher
func (d *Dispatcher) Dispatch(ctx context.Context, req multisig.DispatchRequest) ([]byte, error) {
	from := crypto.PubkeyToAddress(d.pk.PublicKey)

	msg := ethereum.CallMsg{
		From:  from,
		To:    &req.Target,
		Value: req.Value,
		Data:  req.Data,
	}

	ret, err := d.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}

	nonce, err := d.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	gasPrice, err := d.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gas, err := d.client.EstimateGas(ctx, msg)
	if err != nil {
		return nil, err
	}

	tx := types.NewTransaction(nonce, req.Target, req.Value, gas, gasPrice, req.Data)

	signed, err := types.SignTx(tx, types.NewEIP155Signer(d.chainID), d.pk)
	if err != nil {
		return nil, err
	}

	if err := d.client.SendTransaction(ctx, signed); err != nil {
		return nil, err
	}

	rcpt, err := bind.WaitMined(ctx, d.client, signed)
	if err != nil {
		return nil, err
	}

	if rcpt.Status != types.ReceiptStatusSuccessful {
		return nil, ErrExecutionReverted
	}

	return ret, nil
}
