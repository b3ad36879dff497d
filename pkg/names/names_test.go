package names

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecast/pagecast/pkg/chain"
)

type fakeSigner struct{ addr common.Address }

func (s fakeSigner) Address() common.Address { return s.addr }
func (s fakeSigner) SignTx(tx *types.Transaction, _ *big.Int) (*types.Transaction, error) {
	return tx, nil
}

// fakeNameRegistry prices names at 100 wei per month, tripled at or
// under the short-name threshold.
type fakeNameRegistry struct {
	mu            sync.Mutex
	reserved      map[string]common.Hash
	owner         common.Address
	threshold     int
	thresholdHits int
	lastPayment   *big.Int
	lookupDelay   time.Duration
}

func newFakeNameRegistry() *fakeNameRegistry {
	return &fakeNameRegistry{
		reserved:  map[string]common.Hash{},
		owner:     common.HexToAddress("0xa11ce"),
		threshold: 6,
	}
}

func (r *fakeNameRegistry) ReservedPageID(ctx context.Context, name string) (common.Hash, error) {
	if r.lookupDelay > 0 {
		select {
		case <-time.After(r.lookupDelay):
		case <-ctx.Done():
			return common.Hash{}, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserved[name], nil
}

func (r *fakeNameRegistry) ReservationCost(_ context.Context, months int64, name string) (*big.Int, error) {
	cost := big.NewInt(100 * months)
	if len(name) <= r.threshold {
		cost.Mul(cost, big.NewInt(3))
	}
	return cost, nil
}

func (r *fakeNameRegistry) ShortNameThreshold(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thresholdHits++
	return r.threshold, nil
}

func (r *fakeNameRegistry) Owner(context.Context) (common.Address, error) {
	return r.owner, nil
}

func (r *fakeNameRegistry) ReserveName(_ context.Context, _ chain.Signer, pageID common.Hash, name string, _ int64, payment *big.Int) (common.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reserved[name] = pageID
	r.lastPayment = payment
	return common.HexToHash("0xaa"), nil
}

func (r *fakeNameRegistry) ReleaseName(_ context.Context, _ chain.Signer, pageID common.Hash) (common.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, holder := range r.reserved {
		if holder == pageID {
			delete(r.reserved, name)
		}
	}
	return common.HexToHash("0xbb"), nil
}

func TestReserveThenUnavailable(t *testing.T) {
	reg := newFakeNameRegistry()
	svc := NewService(reg, zerolog.Nop())
	ctx := context.Background()
	pageID := common.HexToHash("0x0123")

	available, err := svc.CheckAvailability(ctx, "usdc")
	require.NoError(t, err)
	assert.True(t, available)

	premium, err := svc.IsPremium(ctx, "usdc")
	require.NoError(t, err)
	assert.True(t, premium, "4 letters is at or under the threshold of 6")

	_, err = svc.Reserve(ctx, fakeSigner{addr: common.HexToAddress("0x5")}, pageID, "usdc", 12)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3600), reg.lastPayment, "quoted premium cost attached verbatim")

	available, err = svc.CheckAvailability(ctx, "usdc")
	require.NoError(t, err)
	assert.False(t, available)

	holder, err := svc.Holder(ctx, "USDC")
	require.NoError(t, err)
	assert.Equal(t, pageID, holder, "lookup is case-insensitive")
}

func TestReserveNormalizesName(t *testing.T) {
	reg := newFakeNameRegistry()
	svc := NewService(reg, zerolog.Nop())

	_, err := svc.Reserve(context.Background(), fakeSigner{addr: common.HexToAddress("0x5")}, common.HexToHash("0x01"), "  MyToken ", 1)
	require.NoError(t, err)
	assert.Contains(t, reg.reserved, "mytoken")
}

func TestReserveTakenName(t *testing.T) {
	reg := newFakeNameRegistry()
	reg.reserved["usdc"] = common.HexToHash("0x0999")
	svc := NewService(reg, zerolog.Nop())

	_, err := svc.Reserve(context.Background(), fakeSigner{addr: common.HexToAddress("0x5")}, common.HexToHash("0x01"), "usdc", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameTaken))
}

func TestReserveRenewalByHolderAllowed(t *testing.T) {
	reg := newFakeNameRegistry()
	pageID := common.HexToHash("0x01")
	reg.reserved["usdc"] = pageID
	svc := NewService(reg, zerolog.Nop())

	_, err := svc.Reserve(context.Background(), fakeSigner{addr: common.HexToAddress("0x5")}, pageID, "usdc", 6)
	require.NoError(t, err)
}

func TestOwnerReservesForFree(t *testing.T) {
	reg := newFakeNameRegistry()
	svc := NewService(reg, zerolog.Nop())

	_, err := svc.Reserve(context.Background(), fakeSigner{addr: reg.owner}, common.HexToHash("0x01"), "usdc", 12)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), reg.lastPayment)
}

func TestIsPremiumCachesThreshold(t *testing.T) {
	reg := newFakeNameRegistry()
	svc := NewService(reg, zerolog.Nop())
	ctx := context.Background()

	premium, err := svc.IsPremium(ctx, "longprojectname")
	require.NoError(t, err)
	assert.False(t, premium)

	_, err = svc.IsPremium(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, reg.thresholdHits, "threshold fetched once")
}

func TestReleaseFreesName(t *testing.T) {
	reg := newFakeNameRegistry()
	pageID := common.HexToHash("0x01")
	reg.reserved["usdc"] = pageID
	svc := NewService(reg, zerolog.Nop())

	_, err := svc.Release(context.Background(), fakeSigner{addr: common.HexToAddress("0x5")}, pageID)
	require.NoError(t, err)

	available, err := svc.CheckAvailability(context.Background(), "usdc")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckerDeliversOnlyLatest(t *testing.T) {
	reg := newFakeNameRegistry()
	reg.lookupDelay = 30 * time.Millisecond
	svc := NewService(reg, zerolog.Nop())

	results := make(chan Result, 4)
	checker := NewChecker(svc, func(r Result) { results <- r })

	ctx := context.Background()
	checker.Check(ctx, "first")
	checker.Check(ctx, "second")
	checker.Check(ctx, "third")

	select {
	case r := <-results:
		require.NoError(t, r.Err)
		assert.Equal(t, "third", r.Name, "superseded lookups are dropped")
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}

	select {
	case r := <-results:
		t.Fatalf("unexpected extra delivery for %q", r.Name)
	case <-time.After(100 * time.Millisecond):
	}
}

// Rapid-fire lookups completing out from under newer ones must never
// deliver a stale answer after a newer Check has started.
func TestCheckerNeverDeliversStaleAfterNewerCheck(t *testing.T) {
	reg := newFakeNameRegistry()
	svc := NewService(reg, zerolog.Nop())

	order := map[string]int{}
	var mu sync.Mutex
	var delivered []string
	checker := NewChecker(svc, func(r Result) {
		mu.Lock()
		delivered = append(delivered, r.Name)
		mu.Unlock()
	})

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("name%02d", i)
		order[name] = i
		checker.Check(ctx, name)
	}

	// Quiesce: wait for the final lookup to land, then a grace period
	// for anything stale that might still be in flight.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) > 0 && delivered[len(delivered)-1] == "name49"
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(delivered); i++ {
		assert.Less(t, order[delivered[i-1]], order[delivered[i]],
			"delivery order went backwards: %v", delivered)
	}
	assert.Equal(t, "name49", delivered[len(delivered)-1])
}

func TestCheckerStopSuppressesDelivery(t *testing.T) {
	reg := newFakeNameRegistry()
	reg.lookupDelay = 30 * time.Millisecond
	svc := NewService(reg, zerolog.Nop())

	results := make(chan Result, 1)
	checker := NewChecker(svc, func(r Result) { results <- r })

	checker.Check(context.Background(), "usdc")
	checker.Stop()

	select {
	case r := <-results:
		t.Fatalf("delivery after Stop for %q", r.Name)
	case <-time.After(150 * time.Millisecond):
	}
}
