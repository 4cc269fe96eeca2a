package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func IsSameHexAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

func ChecksumAddress(addr string) string {
	address := common.HexToAddress(addr)

	return address.Hex()
}

// TableSuffix derives a db table suffix from a wallet address
func TableSuffix(addr common.Address) string {
	return strings.ToLower(addr.Hex()[2:])
}
