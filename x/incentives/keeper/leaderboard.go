package keeper

import (
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/huandu/skiplist"

	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// earnerKey orders participants by accumulated rewards, highest first.
// Ties break on participant so every key is unique.
type earnerKey struct {
	rewards     math.Uint
	participant string
}

type earnerKeyDesc struct{}

// Compare implements skiplist.Comparable
func (earnerKeyDesc) Compare(lhs, rhs interface{}) int {
	l := lhs.(earnerKey)
	r := rhs.(earnerKey)
	switch {
	case l.rewards.GT(r.rewards):
		return -1
	case l.rewards.LT(r.rewards):
		return 1
	}
	return strings.Compare(l.participant, r.participant)
}

// CalcScore implements skiplist.Comparable. Ordering is left to Compare.
func (earnerKeyDesc) CalcScore(key interface{}) float64 {
	return 0
}

// Leaderboard ranks the positions of a pool by accumulated rewards
type Leaderboard struct {
	list *skiplist.SkipList
}

// NewLeaderboard creates an empty leaderboard
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{list: skiplist.New(earnerKeyDesc{})}
}

// Add inserts a position
func (lb *Leaderboard) Add(pos *types.Position) {
	lb.list.Set(earnerKey{rewards: pos.AccumulatedRewards, participant: pos.Participant}, pos)
}

// Len returns the number of ranked positions
func (lb *Leaderboard) Len() int {
	return lb.list.Len()
}

// Top returns up to limit entries, best first. A zero limit returns all.
func (lb *Leaderboard) Top(limit int) []types.LeaderboardEntry {
	entries := []types.LeaderboardEntry{}
	for elem := lb.list.Front(); elem != nil; elem = elem.Next() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		pos := elem.Value.(*types.Position)
		entries = append(entries, types.LeaderboardEntry{
			Rank:               len(entries) + 1,
			Participant:        pos.Participant,
			AccumulatedRewards: pos.AccumulatedRewards,
			LiquidityAmount:    pos.LiquidityAmount,
		})
	}
	return entries
}

// TopEarners ranks a pool's participants by accumulated rewards
func (k *Keeper) TopEarners(ctx sdk.Context, poolID uint64, limit int) ([]types.LeaderboardEntry, error) {
	if _, err := k.GetPoolOrErr(ctx, poolID); err != nil {
		return nil, err
	}
	lb := NewLeaderboard()
	for _, pos := range k.GetPoolPositions(ctx, poolID) {
		lb.Add(pos)
	}
	return lb.Top(limit), nil
}
