package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pagestep/internal/config"
	"github.com/v0xg/pagestep/internal/page"
	"github.com/v0xg/pagestep/internal/page/pagetest"
)

func deps(d *pagetest.Driver) Deps {
	return Deps{
		Driver: d,
		Registry: page.NewRegistry(&page.Definition{Name: "home", Fields: []page.Field{
			{Name: "Logout", Locator: "#logout"},
			{Name: "Promo", Locator: ".promo", Optional: true},
		}}),
		Properties: config.Map{"user": "alice"},
	}
}

func TestContextsAreIndependent(t *testing.T) {
	t.Parallel()

	d := pagetest.NewDriver()
	a := New("a", deps(d))
	b := New("b", deps(d))

	a.Vars.Put("x", 1)
	_, ok := b.Vars.Get("x")
	assert.False(t, ok)
}

func TestContextLoadAndUnload(t *testing.T) {
	t.Parallel()

	d := pagetest.NewDriver()
	logout := d.Add("#logout")
	c := New("s", deps(d))

	_, err := c.Element("Logout")
	require.ErrorIs(t, err, ErrNoPage)

	require.NoError(t, c.Load(context.Background(), "home"))
	el, err := c.Element("Logout")
	require.NoError(t, err)
	assert.Same(t, logout, el)

	logout.Visible = false
	require.NoError(t, c.Unload(context.Background()))
	assert.Nil(t, c.Page)
	assert.ErrorIs(t, c.Unload(context.Background()), ErrNoPage)

	assert.ErrorContains(t, c.Load(context.Background(), "nowhere"), "nowhere")
}

func TestContextSettle(t *testing.T) {
	t.Parallel()

	d := pagetest.NewDriver()
	d.Add("#logout")
	promo := d.Add(".promo", false)
	c := New("s", deps(d))

	assert.ErrorIs(t, c.Settle(context.Background()), ErrNoPage)
	require.NoError(t, c.Load(context.Background(), "home"))

	var nerr *page.NotReadyError
	require.ErrorAs(t, c.Settle(context.Background()), &nerr)
	promo.Visible = true
	assert.NoError(t, c.Settle(context.Background()))
}

func TestContextExpandAndClose(t *testing.T) {
	t.Parallel()

	c := New("s", deps(pagetest.NewDriver()))
	c.Vars.Put("greeting", "hi")

	got, err := c.Expand("{greeting} {user}")
	require.NoError(t, err)
	assert.Equal(t, "hi alice", got)

	c.Vars.Put("user", "bob")
	got, err = c.Expand("{user}")
	require.NoError(t, err)
	assert.Equal(t, "bob", got)

	c.Close()
	assert.Zero(t, c.Vars.Len())
	got, err = c.Expand("{user}")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestContextDate(t *testing.T) {
	t.Parallel()

	c := New("s", deps(pagetest.NewDriver()))
	d, err := c.Date("today")
	require.NoError(t, err)
	assert.Equal(t, c.Dates.Today(), d)

	d, err = c.Date("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d.Format("2006-01-02"))
}
