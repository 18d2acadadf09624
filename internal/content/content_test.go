package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDoc = `
contact:
  email: me@example.com
projects:
  - name: First Thing
    image: /images/a.png
  - name: Second Thing
    slug: custom
    video: /static/b.mp4
    mobile: true
`

func TestDefaultDocument(t *testing.T) {
	doc := Default()

	require.NotEmpty(t, doc.Projects)
	assert.Equal(t, "Andhika Presha Saputra", doc.Hero.Name)
	assert.Len(t, doc.NavLinks, 6)
	for _, p := range doc.Projects {
		assert.NotEmpty(t, p.Slug, "slug derived for %q", p.Name)
		assert.True(t, p.HasMedia(), "media for %q", p.Name)
	}

	p, err := doc.Project("mentalist-user-app")
	require.NoError(t, err)
	assert.True(t, p.Mobile)
	assert.True(t, p.HasVideo())
}

func TestParseDerivesSlugs(t *testing.T) {
	doc, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	assert.Equal(t, "first-thing", doc.Projects[0].Slug)
	assert.Equal(t, "custom", doc.Projects[1].Slug)
}

func TestParseRejectsProjectWithoutMedia(t *testing.T) {
	_, err := Parse([]byte("projects:\n  - name: Empty\n"))
	assert.ErrorIs(t, err, ErrNoMedia)
}

func TestParseRejectsDuplicateSlugs(t *testing.T) {
	_, err := Parse([]byte("projects:\n  - {name: A b, image: x}\n  - {name: a-B, image: y}\n"))
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestProjectLookupUnknown(t *testing.T) {
	doc, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	_, err = doc.Project("nope")
	assert.ErrorIs(t, err, ErrUnknownProject)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Mentalist - Admin": "mentalist-admin",
		"  Hello, World!  ": "hello-world",
		"Next.js":           "next-js",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestBackground(t *testing.T) {
	assert.Equal(t, "#111827", Project{}.Background())
	assert.Equal(t, "#fff", Project{Gradient: []string{"#fff"}}.Background())
	assert.Equal(t, "linear-gradient(135deg, #000, #fff)", Project{Gradient: []string{"#000", "#fff"}}.Background())
}

func TestStoreReloadKeepsDocumentOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)
	require.Len(t, store.Document().Projects, 2)

	require.NoError(t, os.WriteFile(path, []byte("projects: [{name: broken}]"), 0o644))
	assert.ErrorIs(t, store.Reload(), ErrNoMedia)
	assert.Len(t, store.Document().Projects, 2)
}

func TestStaticStoreReloadIsNoop(t *testing.T) {
	store := NewStaticStore(Default())
	assert.NoError(t, store.Reload())
	assert.NotNil(t, store.Document())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	store, err := NewStore(path)
	require.NoError(t, err)

	w, err := Watch(store, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	updated := minimalDoc + "  - {name: Third, image: /images/c.png}\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case err := <-w.Reloads:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}
	assert.Len(t, store.Document().Projects, 3)
}
