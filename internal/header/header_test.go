package header

import "testing"

func TestSplitComment(t *testing.T) {
	field, value, ok := splitComment("ARTIST=Test Artist")
	if !ok || field != "ARTIST" || value != "Test Artist" {
		t.Fatalf("got (%q, %q, %v)", field, value, ok)
	}
}

func TestSplitCommentMissingSeparator(t *testing.T) {
	if _, _, ok := splitComment("no-separator-here"); ok {
		t.Fatal("expected ok=false")
	}
}

func TestCommentsByTag(t *testing.T) {
	c := &Comments{Comments: []Comment{
		{Tag: CommentArtist, Field: "ARTIST", Value: "A"},
		{Tag: CommentTitle, Field: "TITLE", Value: "T"},
	}}
	if v, ok := c.ByTag(CommentTitle); !ok || v != "T" {
		t.Fatalf("got (%q, %v)", v, ok)
	}
	if _, ok := c.ByTag(CommentGenre); ok {
		t.Fatal("expected not found")
	}
}
