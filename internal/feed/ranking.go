package feed

import (
	"math"
	"sort"
	"time"

	"github.com/skilly-social/backend/internal/models"
)

// Ranking window and weights
const (
	windowDays    = 30.0
	minEngagement = 2

	likeWeight    = 1.0
	saveWeight    = 2.5
	commentWeight = 2.0
	recencyBonus  = 20.0
)

// TrendingScore scores a post for the trending feed. Posts aged 30 days or
// more, or with fewer than 2 total engagements, score zero and are excluded.
func TrendingScore(p *models.Post, now time.Time) float64 {
	ageDays := now.Sub(p.CreatedAt).Hours() / 24
	if ageDays >= windowDays {
		return 0
	}

	engagement := p.Engagement()
	if engagement < minEngagement {
		return 0
	}

	score := likeWeight*float64(len(p.Likes)) +
		saveWeight*float64(len(p.SavedBy)) +
		commentWeight*float64(len(p.Comments))
	score += recencyBonus * (1 - ageDays/windowDays) * math.Log(1+float64(engagement))
	return score
}

// Trending filters posts to those with a positive trending score and sorts
// them by score, highest first.
func Trending(posts []models.Post, now time.Time) []models.Post {
	type scored struct {
		post  models.Post
		score float64
	}

	ranked := make([]scored, 0, len(posts))
	for _, p := range posts {
		if s := TrendingScore(&p, now); s > 0 {
			ranked = append(ranked, scored{post: p, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]models.Post, len(ranked))
	for i, r := range ranked {
		out[i] = r.post
	}
	return out
}

// Recent filters posts to the last 30 days, newest first.
func Recent(posts []models.Post, now time.Time) []models.Post {
	out := filterWindow(posts, now)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Popular filters posts to the last 30 days and sorts them by likes plus
// comments, highest first.
func Popular(posts []models.Post, now time.Time) []models.Post {
	out := filterWindow(posts, now)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Likes)+len(out[i].Comments) > len(out[j].Likes)+len(out[j].Comments)
	})
	return out
}

func filterWindow(posts []models.Post, now time.Time) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if now.Sub(p.CreatedAt).Hours()/24 < windowDays {
			out = append(out, p)
		}
	}
	return out
}
