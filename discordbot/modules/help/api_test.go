package help

import (
	"testing"

	"github.com/eientei/blueprint/discordbot/router"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := router.NewRouter()
	r.Group("help").SetDescription("prints help").Handle("prints help", nil)
	r.Group("template").SetDescription("guild templates")
	r.On("template", "export", "exports guild", nil)

	out := Render(r)

	assert.Contains(t, out, "==HELP== prints help\n           /help: prints help\n")
	assert.Contains(t, out, "==TEMPLATE== guild templates\n/template export: exports guild\n")
}
