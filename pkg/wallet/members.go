package wallet

import "github.com/ethereum/go-ethereum/common"

// memberSet is an insertion ordered address set with O(1) lookup.
// Adding an address twice is a no-op.
type memberSet struct {
	list []common.Address
	seen map[common.Address]struct{}
}

func newMemberSet(addrs []common.Address) *memberSet {
	s := &memberSet{
		seen: map[common.Address]struct{}{},
	}

	for _, addr := range addrs {
		s.add(addr)
	}

	return s
}

// add inserts an address, returns false if it was already present
func (s *memberSet) add(addr common.Address) bool {
	if _, ok := s.seen[addr]; ok {
		return false
	}

	s.seen[addr] = struct{}{}
	s.list = append(s.list, addr)

	return true
}

func (s *memberSet) contains(addr common.Address) bool {
	_, ok := s.seen[addr]
	return ok
}

func (s *memberSet) len() int {
	return len(s.list)
}

func (s *memberSet) addresses() []common.Address {
	return append([]common.Address(nil), s.list...)
}
