package common

import (
	"context"

	"github.com/groupwallet/gate/pkg/multisig"
)

// GetContextAddress returns the multisig.ContextKeyAddress from the context
func GetContextAddress(ctx context.Context) (string, bool) {
	addr, ok := ctx.Value(multisig.ContextKeyAddress).(string)
	return addr, ok
}
