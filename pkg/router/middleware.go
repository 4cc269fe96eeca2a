package router

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-chi/chi/v5"
	"github.com/groupwallet/gate/pkg/multisig"
)

var (
	options sync.Map

	allMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPatch,
		http.MethodPut,
		http.MethodDelete,
	}

	acceptedHeaders = []string{
		"Origin",
		"Content-Type",
		"Content-Length",
		"X-Requested-With",
		"Accept-Encoding",
		"Authorization",
		multisig.SignatureHeader,
		multisig.AddressHeader,
	}
)

// HealthMiddleware is a middleware that responds to health checks
func HealthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// OptionsMiddleware ensures that we return the correct headers for CORS requests
func OptionsMiddleware(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)

		var path string
		if r.URL.RawPath != "" {
			path = r.URL.RawPath
		} else {
			path = r.URL.Path
		}

		var methodsStr string
		cached, ok := options.Load(path)
		if ok {
			methodsStr = cached.(string)
		} else {
			var methods []string
			for _, method := range allMethods {
				nctx := chi.NewRouteContext()
				if ctx.Routes.Match(nctx, method, path) {
					methods = append(methods, method)
				}
			}

			methods = append(methods, http.MethodOptions)
			methodsStr = strings.Join(methods, ", ")
			options.Store(path, methodsStr)
		}

		// allowed methods
		w.Header().Set("Allow", methodsStr)

		// allowed methods for CORS
		w.Header().Set("Access-Control-Allow-Methods", methodsStr)

		// allowed origins
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// allowed headers
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(acceptedHeaders, ", "))

		// actually handle the request
		if r.Method != http.MethodOptions {
			h.ServeHTTP(w, r)
			return
		}

		// handle OPTIONS requests
		w.WriteHeader(http.StatusOK)
	}

	return http.HandlerFunc(fn)
}

func RequestSizeLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

type BodyEncoding string

const (
	BodyEncodingBase64 BodyEncoding = "base64"
)

type signedBody struct {
	Data     []byte       `json:"data"`
	Encoding BodyEncoding `json:"encoding"`
	Expiry   int64        `json:"expiry"`
	Version  int          `json:"version"`
}

// withSignature is a middleware that recovers the principal from a signature
// over the request body. The recovered address is the caller identity handed
// to the wallet; requests without a verifiable signature never reach it.
func withSignature(h http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// check signature
		signature := r.Header.Get(multisig.SignatureHeader)
		if signature == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req signedBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		// get address
		addr := r.Header.Get(multisig.AddressHeader)
		if addr == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		haccaddr := common.HexToAddress(addr)

		// check signature
		switch req.Version {
		case 0:
			// legacy compact signature over the data only
			if !verifyCompactSignature(req, haccaddr, signature) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		default:
			if !verifySignature(req, haccaddr, signature) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}

		r.Body = io.NopCloser(strings.NewReader(string(req.Data)))
		r.ContentLength = int64(len(req.Data))

		ctx := context.WithValue(r.Context(), multisig.ContextKeyAddress, haccaddr.Hex())
		ctx = context.WithValue(ctx, multisig.ContextKeySignature, signature)

		h(w, r.WithContext(ctx))
	})
}

// verifyCompactSignature verifies a compact signature over the request data
//
// Deprecated: verifies only the data and not the entire request
func verifyCompactSignature(req signedBody, addr common.Address, signature string) bool {
	if req.Version != 0 {
		return false
	}

	// verify if the signature has expired
	if req.Expiry < time.Now().UTC().Unix() {
		return false
	}

	// hash the request data
	h := crypto.Keccak256Hash(req.Data)

	// decode the signature
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false
	}

	// recover the public key from the signature
	pubkey, _, err := dcrecdsa.RecoverCompact(sig, h.Bytes())
	if err != nil {
		return false
	}

	// derive the address from the public key
	address := crypto.PubkeyToAddress(*pubkey.ToECDSA())

	// the address in the request must match the address derived from the signature
	if address != addr {
		return false
	}

	// create ModNScalars from the signature manually
	sr, ss := secp256k1.ModNScalar{}, secp256k1.ModNScalar{}

	// set the byteslices manually from the signature
	sr.SetByteSlice(sig[1:33])
	ss.SetByteSlice(sig[33:65])

	// create a new signature from the ModNScalars
	ns := dcrecdsa.NewSignature(&sr, &ss)

	// verify the signature
	return ns.Verify(h.Bytes(), pubkey)
}

// verifySignature verifies a signature over the entire request body
func verifySignature(req signedBody, addr common.Address, signature string) bool {
	// verify if the signature has expired
	if req.Expiry < time.Now().UTC().Unix() {
		return false
	}

	// decode the signature
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	if sig[crypto.RecoveryIDOffset] == 27 || sig[crypto.RecoveryIDOffset] == 28 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	// hash the entire request data
	b, err := json.Marshal(req)
	if err != nil {
		return false
	}

	h := accounts.TextHash(crypto.Keccak256(b))

	pkey, err := crypto.SigToPub(h, sig)
	if err != nil {
		return false
	}

	// derive the address from the public key
	address := crypto.PubkeyToAddress(*pkey)

	return address == addr
}

// compactSignature gets the v, r, and s values and compacts them into a 65 byte array
// 0x - padding
// v - 1 byte
// r - 32 bytes
// s - 32 bytes
func compactSignature(sig []byte) string {
	rsig := make([]byte, 65)

	// v is the last byte of the signature plus 27
	integer := big.NewInt(0).SetBytes(sig[64:65]).Uint64()

	rsig[0] = byte(integer + 27)
	copy(rsig[1:33], sig[0:32])
	copy(rsig[33:65], sig[32:64])

	return hexutil.Encode(rsig)
}
