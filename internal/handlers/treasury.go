package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"
)

// Deposit credits an account with a payment or token asset. Demo stand-in for
// an external on-ramp.
func Deposit(c *gin.Context) {
	var request DepositRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := parseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := book.Credit(request.Account, request.Asset, amount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": request.Account,
		"asset":   request.Asset,
		"amount":  amountString(amount),
	})
}

// GetBalances returns every asset balance held by an account.
func GetBalances(c *gin.Context) {
	account := c.Param("account")

	rows, err := book.Balances(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	balances := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		balances = append(balances, gin.H{
			"asset":  row.Asset,
			"amount": row.Amount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "balances": balances})
}

// ListTransfers returns recent movement records, optionally filtered by
// account, newest first.
func ListTransfers(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	query := dbconfig.DB.Order("id desc").Limit(limit)
	if account := c.Query("account"); account != "" {
		query = query.Where("from_account = ? OR to_account = ?", account, account)
	}
	if asset := c.Query("asset"); asset != "" {
		query = query.Where("asset = ?", asset)
	}

	var records []models.TransferRecord
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
