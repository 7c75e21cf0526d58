package types

// LikeResult is returned after toggling a like.
type LikeResult struct {
	LikeCount int64 `json:"likeCount"`
	Liked     bool  `json:"liked"`
}

// RatingResult carries the recomputed average rounded to one decimal.
type RatingResult struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// LikeRequest is the body of POST /feedback/like. Routes that carry the
// recipe id in the path ignore RecipeID.
type LikeRequest struct {
	RecipeID string `json:"recipeId" form:"recipeId"`
}

// RateRequest keeps Rating as a pointer so a missing value can be told apart
// from zero.
type RateRequest struct {
	RecipeID string `json:"recipeId" form:"recipeId"`
	Rating   *int   `json:"rating" form:"rating"`
}
