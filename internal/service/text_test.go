package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Short & sweet", Excerpt("<em>Short</em> &amp; sweet", "ignored"))
	assert.Equal(t, "a b c", Excerpt("", "<p>a  b</p>\n<p>c</p>"))
	assert.Equal(t, "", Excerpt("", ""))
}

func TestTrimWords(t *testing.T) {
	assert.Equal(t, "one two…", TrimWords("one two three", 2))
	assert.Equal(t, "one two", TrimWords(" one  two ", 2))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.3, RoundRating(4.25))
	assert.Equal(t, 3.3, RoundRating(3.3333))
	assert.Equal(t, 0.0, RoundRating(0))
}

func TestMediaServiceURL(t *testing.T) {
	ctx := context.Background()

	plain := NewMediaService(nil, "")
	assert.Equal(t, "img/a.jpg", plain.URL(ctx, "img/a.jpg"))
	assert.Equal(t, "https://x.test/a.jpg", plain.URL(ctx, "https://x.test/a.jpg"))
	assert.Equal(t, "", plain.URL(ctx, ""))

	cdn := NewMediaService(nil, "https://cdn.test/media/")
	assert.Equal(t, "https://cdn.test/media/img/a.jpg", cdn.URL(ctx, "img/a.jpg"))
	assert.Equal(t, "/static/a.jpg", cdn.URL(ctx, "/static/a.jpg"))
}
