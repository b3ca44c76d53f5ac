package handlers

import (
	"errors"
	"net/http"
	"os"

	"gvix-backtest/internal/api/models"
	"gvix-backtest/internal/data"

	"github.com/gin-gonic/gin"
)

// ListDatasets handles GET /api/v1/datasets
func ListDatasets(c *gin.Context) {
	list, err := data.LoadRegistry(data.GetDefaultRegistryPath())
	if err != nil {
		// A missing registry is not an error; the server just has no
		// registered datasets yet.
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"datasets": []models.DatasetInfo{}, "count": 0})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "REGISTRY_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	datasets := make([]models.DatasetInfo, len(list.Datasets))
	for i, d := range list.Datasets {
		datasets[i] = models.DatasetInfo{
			ID:          d.ID,
			Name:        d.Name,
			Market:      d.Market,
			OptionsFile: d.OptionsFile,
			IndexFile:   d.IndexFile,
			RatesFile:   d.RatesFile,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"datasets":   datasets,
		"updated_at": list.UpdatedAt,
		"count":      len(datasets),
	})
}
