package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinebreaks(t *testing.T) {
	got := string(Linebreaks("first line\nsecond line\n\nnext paragraph"))
	assert.Equal(t, "<p>first line<br>second line</p>\n<p>next paragraph</p>\n", got)
}

func TestLinebreaksEscapesMarkup(t *testing.T) {
	got := string(Linebreaks(`<script>alert("x")</script> & more`))
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "bold and text", CleanText(" <b>bold</b> and <script>alert(1)</script>text "))
	assert.Equal(t, `Tom & Jerry say "hi" <3`, CleanText(`Tom & Jerry say "hi" <3`))
	assert.Empty(t, CleanText("<script>alert(1)</script>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 15))
	assert.Equal(t, "Привет…", Truncate("Привет, мир", 6))
}
