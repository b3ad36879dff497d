package names

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/pagecast/pagecast/pkg/chain"
)

// ErrNameTaken is returned when reserving a name another page holds.
var ErrNameTaken = errors.New("name already reserved")

// NameRegistry is the reservation surface of the on-chain registry.
type NameRegistry interface {
	ReservedPageID(ctx context.Context, name string) (common.Hash, error)
	ReservationCost(ctx context.Context, months int64, name string) (*big.Int, error)
	ShortNameThreshold(ctx context.Context) (int, error)
	Owner(ctx context.Context) (common.Address, error)
	ReserveName(ctx context.Context, signer chain.Signer, pageID common.Hash, name string, months int64, payment *big.Int) (common.Hash, error)
	ReleaseName(ctx context.Context, signer chain.Signer, pageID common.Hash) (common.Hash, error)
}

// Service answers availability and pricing questions and drives the
// reserve/release writes. Names are matched case-insensitively by
// lowercasing before every registry call.
type Service struct {
	registry NameRegistry
	log      zerolog.Logger

	mu        sync.Mutex
	threshold int // 0 until first fetched
}

func NewService(registry NameRegistry, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		log:      log.With().Str("component", "names").Logger(),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CheckAvailability reports whether the name is unreserved. A zero page
// id from the registry means no holder.
func (s *Service) CheckAvailability(ctx context.Context, name string) (bool, error) {
	holder, err := s.registry.ReservedPageID(ctx, normalize(name))
	if err != nil {
		return false, err
	}
	return holder == (common.Hash{}), nil
}

// Holder returns the page currently holding the name, zero if free.
func (s *Service) Holder(ctx context.Context, name string) (common.Hash, error) {
	return s.registry.ReservedPageID(ctx, normalize(name))
}

// Cost quotes the reservation price in wei for the given duration.
func (s *Service) Cost(ctx context.Context, name string, months int64) (*big.Int, error) {
	return s.registry.ReservationCost(ctx, months, normalize(name))
}

// IsPremium reports whether the name is at or under the short-name
// threshold and therefore priced at the premium rate. The threshold is
// contract state that never changes after deployment, so it is cached.
func (s *Service) IsPremium(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	threshold := s.threshold
	s.mu.Unlock()
	if threshold == 0 {
		var err error
		threshold, err = s.registry.ShortNameThreshold(ctx)
		if err != nil {
			return false, err
		}
		s.mu.Lock()
		s.threshold = threshold
		s.mu.Unlock()
	}
	return len(normalize(name)) <= threshold, nil
}

// Reserve binds the name to the page for the given duration. The quoted
// cost is attached as payment verbatim; the contract deployer reserves
// for free.
func (s *Service) Reserve(ctx context.Context, signer chain.Signer, pageID common.Hash, name string, months int64) (common.Hash, error) {
	name = normalize(name)

	holder, err := s.registry.ReservedPageID(ctx, name)
	if err != nil {
		return common.Hash{}, err
	}
	if holder != (common.Hash{}) && holder != pageID {
		return common.Hash{}, errors.Mark(errors.Newf("name %q is held by page %s", name, holder.Hex()), ErrNameTaken)
	}

	payment := big.NewInt(0)
	owner, err := s.registry.Owner(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if signer.Address() != owner {
		payment, err = s.registry.ReservationCost(ctx, months, name)
		if err != nil {
			return common.Hash{}, err
		}
	}

	txHash, err := s.registry.ReserveName(ctx, signer, pageID, name, months, payment)
	if err != nil {
		return common.Hash{}, err
	}
	s.log.Info().Str("name", name).Str("pageId", pageID.Hex()).Str("payment", payment.String()).Msg("Name reserved")
	return txHash, nil
}

// Release frees whatever name the page holds.
func (s *Service) Release(ctx context.Context, signer chain.Signer, pageID common.Hash) (common.Hash, error) {
	return s.registry.ReleaseName(ctx, signer, pageID)
}
