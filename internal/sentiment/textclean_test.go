package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubepulse/internal/models"
)

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "check this out",
		RemoveLinks("check this [out](https://example.com/page)"))
	assert.Equal(t, "go to  now",
		RemoveLinks("go to https://example.com/watch?v=abc now"))
	assert.Equal(t, "see  please",
		RemoveLinks("see www.example.com please"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "great video",
			want:  "great video",
		},
		{
			name:  "markdown emphasis drops",
			input: "this was **really** _good_",
			want:  "this was really good",
		},
		{
			name:  "html entities unescape",
			input: "tom &amp; jerry",
			want:  "tom & jerry",
		},
		{
			name:  "links drop but anchor text stays",
			input: "loved [this part](https://youtu.be/abc) a lot",
			want:  "loved this part a lot",
		},
		{
			name:  "whitespace collapses",
			input: "so   much\n\nspace",
			want:  "so much space",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestLexiconClassifier(t *testing.T) {
	c := NewLexiconClassifier()

	code, err := c.ClassifyText("I really love this video, it made my day")
	require.NoError(t, err)
	assert.Equal(t, int(models.LabelHappy), code)

	code, err = c.ClassifyText("I absolutely hated this, what a terrible waste")
	require.NoError(t, err)
	assert.Equal(t, int(models.LabelSad), code)

	code, err = c.ClassifyText("the video is twelve minutes long")
	require.NoError(t, err)
	assert.Equal(t, int(models.LabelNeutral), code)
}
