package service

import "issueradar/internal/models"

// Paginate slices a sorted result set. Page and limit are 1-based and assumed
// validated; pages past the end yield an empty slice, not an error.
func Paginate(issues []models.EnrichedIssue, page, limit int) ([]models.EnrichedIssue, models.Pagination) {
	total := len(issues)
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	meta := models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      int64(total),
		TotalPages: totalPages,
	}

	start := (page - 1) * limit
	if start >= total {
		return []models.EnrichedIssue{}, meta
	}
	end := start + limit
	if end > total {
		end = total
	}
	return issues[start:end], meta
}
