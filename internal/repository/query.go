package repository

import (
	"fmt"
	"time"

	"github.com/JonnyWalker81/adhere/backend/internal/models"
)

// windowQuery builds PostgREST filters for one user's rows inside a half-open window
func windowQuery(userID, column string, window models.DateRange) map[string]string {
	return map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(%s.gte.%s,%s.lt.%s)",
			column, window.Start.UTC().Format(time.RFC3339),
			column, window.End.UTC().Format(time.RFC3339)),
		"select": "*",
		"order":  fmt.Sprintf("%s.asc", column),
	}
}
