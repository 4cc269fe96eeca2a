package wallets

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/groupwallet/gate/internal/common"
	"github.com/groupwallet/gate/internal/services/db"
	"github.com/groupwallet/gate/internal/services/ledger"
	"github.com/groupwallet/gate/pkg/multisig"
	"github.com/groupwallet/gate/pkg/wallet"
)

type Service struct {
	w  *wallet.Wallet
	lg *ledger.Ledger
	db *db.DB
}

// NewService instantiates a wallets handler service. The ledger is nil in
// chain mode, the db may be nil when records are not persisted.
func NewService(w *wallet.Wallet, lg *ledger.Ledger, d *db.DB) *Service {
	return &Service{
		w:  w,
		lg: lg,
		db: d,
	}
}

// statusFromError maps the engine's error taxonomy onto http status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, multisig.ErrNotVoter),
		errors.Is(err, multisig.ErrNotProposer),
		errors.Is(err, multisig.ErrNotSelf):
		return http.StatusForbidden
	case errors.Is(err, multisig.ErrRoundOpen),
		errors.Is(err, multisig.ErrRoundClosed),
		errors.Is(err, multisig.ErrReentrantCall):
		return http.StatusConflict
	case errors.Is(err, multisig.ErrNoQuorum):
		return http.StatusPreconditionFailed
	case errors.Is(err, multisig.ErrNoActiveProposal):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func principal(r *http.Request) (ethcommon.Address, bool) {
	addr, ok := common.GetContextAddress(r.Context())
	if !ok {
		return ethcommon.Address{}, false
	}

	return ethcommon.HexToAddress(addr), true
}

type createProposalRequest struct {
	Target    string          `json:"target"`
	Signature string          `json:"signature"`
	Args      []multisig.Word `json:"args"`
	ArgCount  int             `json:"arg_count"`
	Value     string          `json:"value"`
}

// CreateProposal opens a new voting round
func (s *Service) CreateProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req createProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if !ethcommon.IsHexAddress(req.Target) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	value, err := parseValue(req.Value)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = s.w.CreateProposal(caller, ethcommon.HexToAddress(req.Target), req.Signature, req.Args, req.ArgCount, value)
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	p, err := s.w.CurrentProposal()
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	err = common.Body(w, p, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Vote sets the caller's agreement flag on the current round
func (s *Service) Vote(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := s.w.Vote(caller); err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

type executionResponse struct {
	Success bool          `json:"success"`
	Data    hexutil.Bytes `json:"data"`
}

// Execute performs the proposal's external call
func (s *Service) Execute(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	success, data, err := s.w.Execute(r.Context(), caller)
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	err = common.Body(w, executionResponse{Success: success, Data: data}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type fundRequest struct {
	Amount string `json:"amount"`
}

// Fund pays value into the wallet. In local mode the amount is moved on the
// ledger first; the record is only emitted for a completed transfer.
func (s *Service) Fund(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	amount, err := parseValue(req.Amount)
	if err != nil || amount.Sign() <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if s.lg != nil {
		if err := s.lg.Transfer(caller, s.w.Address(), amount); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	if err := s.w.Fund(r.Context(), caller, amount); err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// CurrentProposal returns the pending proposal of the open round
func (s *Service) CurrentProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.w.CurrentProposal()
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	err = common.Body(w, p, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type quorumResponse struct {
	Reached bool `json:"reached"`
	Quorum  int  `json:"quorum"`
}

// QuorumReached reports whether the open round can execute
func (s *Service) QuorumReached(w http.ResponseWriter, r *http.Request) {
	reached, err := s.w.QuorumReached()
	if err != nil {
		w.WriteHeader(statusFromError(err))
		return
	}

	err = common.Body(w, quorumResponse{Reached: reached, Quorum: wallet.Quorum(len(s.w.Voters()))}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type durationResponse struct {
	Seconds int64 `json:"seconds"`
}

// VotingDuration returns the configured round duration
func (s *Service) VotingDuration(w http.ResponseWriter, r *http.Request) {
	err := common.Body(w, durationResponse{Seconds: int64(s.w.VotingDuration().Seconds())}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Voters returns the voter set in insertion order
func (s *Service) Voters(w http.ResponseWriter, r *http.Request) {
	voters := s.w.Voters()

	hexed := make([]string, 0, len(voters))
	for _, v := range voters {
		hexed = append(hexed, v.Hex())
	}

	err := common.BodyMultiple(w, hexed, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetExecutions returns persisted execution records, newest first
func (s *Service) GetExecutions(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	limit, offset := pagination(r)

	recs, total, err := s.db.ExecutionDB.GetExecutions(limit, offset)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	err = common.BodyMultiple(w, recs, common.Pagination{Limit: limit, Offset: offset, Total: total})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetFundings returns persisted funding records, newest first
func (s *Service) GetFundings(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	limit, offset := pagination(r)

	recs, total, err := s.db.FundingDB.GetFundings(limit, offset)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	err = common.BodyMultiple(w, recs, common.Pagination{Limit: limit, Offset: offset, Total: total})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func parseValue(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("invalid value: " + s)
	}

	return v, nil
}

func pagination(r *http.Request) (int, int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}
