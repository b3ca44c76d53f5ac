package handlers

import (
	"log"
	"net/http"

	"gvix-backtest/internal/api/models"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name:        "mispricing",
			Description: "Trades the gap between the Black-Scholes-Merton price under the index sigma and the market price. Long when the model price exceeds the market by more than the threshold, short when it falls below by more than the threshold.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "threshold",
					Type:        "float",
					Description: "Relative no-trade band around the market price (0.05 = 5%)",
					Default:     0.05,
				},
			},
		},
		{
			Name:        "long",
			Description: "Passive baseline. Holds every option long regardless of model price.",
			Parameters:  []models.ParameterInfo{},
		},
	}

	log.Printf("StrategyHandler: Returning %d strategies", len(strategies))
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
