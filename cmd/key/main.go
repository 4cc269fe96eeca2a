package main

import (
	"encoding/hex"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
)

func main() {
	log.Default().Println("generating...")
	log.Default().Println(" ")

	k, err := crypto.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Printf("address: %s\n", crypto.PubkeyToAddress(k.PublicKey).Hex())
	log.Default().Printf("key: %s\n", hex.EncodeToString(crypto.FromECDSA(k)))
}
