package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"issueradar/internal/models"
)

// Endpoint-specific pagination caps. Exceeding a cap is a validation failure,
// never a silent clamp.
const (
	feedMaxLimit     = 100
	userListMaxLimit = 50

	defaultPage  = 1
	defaultLimit = 20
)

// parseFilters normalizes the feed query parameters into a FilterSet,
// collecting per-field problems instead of failing on the first one.
func parseFilters(c *fiber.Ctx, details map[string]string) models.FilterSet {
	f := models.FilterSet{
		Languages: splitCSV(c.Query("languages")),
		Labels:    splitCSV(c.Query("labels")),
		Orgs:      splitCSV(c.Query("orgs")),
		Repos:     splitCSV(c.Query("repos")),
	}

	f.MinStars = parseOptionalInt(c.Query("minStars"), "minStars", details)
	f.MaxStars = parseOptionalInt(c.Query("maxStars"), "maxStars", details)
	if f.MinStars != nil && *f.MinStars < 0 {
		details["minStars"] = "must be non-negative"
	}
	if f.MaxStars != nil && *f.MaxStars < 0 {
		details["maxStars"] = "must be non-negative"
	}
	if f.MinStars != nil && f.MaxStars != nil && *f.MinStars > *f.MaxStars {
		details["minStars"] = "must not exceed maxStars"
	}

	f.BountyOnly = parseBool(c.Query("bountyOnly"), "bountyOnly", details)
	f.FollowedOnly = parseBool(c.Query("followedOnly"), "followedOnly", details)

	for _, repo := range f.Repos {
		if !validRepoName(repo) {
			details["repos"] = "each entry must be owner/name"
			break
		}
	}

	return f
}

// parseFeedOptions validates page/limit/sort parameters for the feed.
func parseFeedOptions(c *fiber.Ctx, details map[string]string) models.FeedOptions {
	opts := models.FeedOptions{
		Page:      parsePositiveInt(c.Query("page"), "page", defaultPage, details),
		Limit:     parsePositiveInt(c.Query("limit"), "limit", defaultLimit, details),
		SortBy:    c.Query("sortBy", models.SortByScore),
		SortOrder: c.Query("sortOrder", models.SortOrderDesc),
	}
	if opts.Limit > feedMaxLimit {
		details["limit"] = "must not exceed " + strconv.Itoa(feedMaxLimit)
	}

	switch opts.SortBy {
	case models.SortByScore, models.SortByStars, models.SortByOpenedAt, models.SortByUpdatedAt:
	default:
		details["sortBy"] = "must be one of: score, stars, openedAt, updatedAt"
	}
	switch opts.SortOrder {
	case models.SortOrderAsc, models.SortOrderDesc:
	default:
		details["sortOrder"] = "must be asc or desc"
	}

	return opts
}

// splitCSV splits a comma-separated parameter, trimming whitespace and
// dropping empty entries. Returns nil for an absent parameter so the open
// filter invariant holds.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseOptionalInt(raw, field string, details map[string]string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		details[field] = "must be an integer"
		return nil
	}
	return &n
}

func parsePositiveInt(raw, field string, defaultVal int, details map[string]string) int {
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		details[field] = "must be a positive integer"
		return defaultVal
	}
	return n
}

func parseBool(raw, field string, details map[string]string) bool {
	switch raw {
	case "", "false", "0":
		return false
	case "true", "1":
		return true
	default:
		details[field] = "must be true or false"
		return false
	}
}

// validRepoName checks the "owner/name" shape.
func validRepoName(repo string) bool {
	parts := strings.Split(repo, "/")
	return len(parts) == 2 && parts[0] != "" && parts[1] != ""
}
