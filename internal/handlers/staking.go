package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/engine"
)

func poolJSON(cfg engine.PoolConfig) gin.H {
	return gin.H{
		"pool":         cfg.Type.String(),
		"apy_bps":      cfg.APYBPS,
		"min_stake":    amountString(cfg.MinStake),
		"lock_seconds": cfg.LockSeconds,
		"bonus_bps":    cfg.BonusBPS,
		"active":       cfg.Active,
		"total_staked": amountString(cfg.TotalStaked),
	}
}

// ListPools returns every staking pool's configuration and total.
func ListPools(c *gin.Context) {
	var resp []gin.H
	withRead(func() {
		pools := ledger.Pools()
		for p := engine.PoolFlexible; ; p++ {
			cfg, ok := pools[p]
			if !ok {
				break
			}
			resp = append(resp, poolJSON(cfg))
		}
	})
	c.JSON(http.StatusOK, resp)
}

// GetPool returns one pool by name.
func GetPool(c *gin.Context) {
	pool, err := engine.ParsePoolType(c.Param("pool"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var resp gin.H
	var opErr error
	withRead(func() {
		cfg, err := ledger.Pool(pool)
		if err != nil {
			opErr = err
			return
		}
		resp = poolJSON(cfg)
	})
	if opErr != nil {
		c.JSON(statusFor(opErr), gin.H{"error": opErr.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateStake opens a position and returns its stable index.
func CreateStake(c *gin.Context) {
	var request StakeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := parseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pool, err := engine.ParsePoolType(request.Pool)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var index int
	err = withWrite(func() error {
		var opErr error
		index, opErr = ledger.Stake(request.Address, amount, pool)
		return opErr
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": request.Address,
		"index":   index,
		"pool":    pool.String(),
		"amount":  amountString(amount),
	})
}

// ListPositions returns all of a user's positions, open and closed, with
// pending rewards computed at the current time.
func ListPositions(c *gin.Context) {
	address := c.Param("address")

	var resp gin.H
	withRead(func() {
		positions := ledger.Positions(address)
		list := make([]gin.H, 0, len(positions))
		for i, pos := range positions {
			list = append(list, gin.H{
				"index":            i,
				"pool":             pos.Pool.String(),
				"amount":           amountString(pos.Amount),
				"start_time":       pos.StartTime,
				"last_reward_time": pos.LastRewardTime,
				"last_bonus_claim": pos.LastBonusClaim,
				"active":           pos.Active,
				"pending_rewards":  amountString(ledger.PendingRewards(address, i)),
			})
		}
		resp = gin.H{
			"address":      address,
			"total_staked": amountString(ledger.StakedBy(address)),
			"positions":    list,
		}
	})
	c.JSON(http.StatusOK, resp)
}

// GetPendingRewards returns one position's claimable rewards.
func GetPendingRewards(c *gin.Context) {
	address := c.Param("address")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index format"})
		return
	}

	var resp gin.H
	withRead(func() {
		resp = gin.H{
			"address": address,
			"index":   index,
			"pending": amountString(ledger.PendingRewards(address, index)),
		}
	})
	c.JSON(http.StatusOK, resp)
}

func runPositionOp(c *gin.Context, op func(address string, index int) (interface{}, error)) {
	var request PositionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var resp interface{}
	err := withWrite(func() error {
		var opErr error
		resp, opErr = op(request.Address, *request.Index)
		return opErr
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClaimRewards pays out a position's accrued rewards.
func ClaimRewards(c *gin.Context) {
	runPositionOp(c, func(address string, index int) (interface{}, error) {
		paid, err := ledger.ClaimRewards(address, index)
		if err != nil {
			return nil, err
		}
		return gin.H{"address": address, "index": index, "rewards": amountString(paid)}, nil
	})
}

// ClaimFlexibleBonus pays out a flexible position's daily loyalty bonus.
func ClaimFlexibleBonus(c *gin.Context) {
	runPositionOp(c, func(address string, index int) (interface{}, error) {
		bonus, err := ledger.ClaimFlexibleBonus(address, index)
		if err != nil {
			return nil, err
		}
		return gin.H{"address": address, "index": index, "bonus": amountString(bonus)}, nil
	})
}

// UnstakePosition closes a matured position, paying principal plus rewards.
func UnstakePosition(c *gin.Context) {
	runPositionOp(c, func(address string, index int) (interface{}, error) {
		payout, err := ledger.Unstake(address, index)
		if err != nil {
			return nil, err
		}
		return gin.H{"address": address, "index": index, "payout": amountString(payout)}, nil
	})
}

// EmergencyUnstakePosition exits a still-locked position early: the fee is
// kept, rewards are forfeited.
func EmergencyUnstakePosition(c *gin.Context) {
	runPositionOp(c, func(address string, index int) (interface{}, error) {
		payout, err := ledger.EmergencyUnstake(address, index)
		if err != nil {
			return nil, err
		}
		return gin.H{"address": address, "index": index, "payout": amountString(payout)}, nil
	})
}

// GetStakingSummary returns aggregate staking figures.
func GetStakingSummary(c *gin.Context) {
	var resp gin.H
	withRead(func() {
		resp = gin.H{
			"rewards_paid":      amountString(ledger.RewardsPaid()),
			"emergency_fee_bps": ledger.EmergencyFeeBPS(),
		}
	})
	c.JSON(http.StatusOK, resp)
}
