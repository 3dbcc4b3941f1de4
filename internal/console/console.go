package console

import (
	_ "embed"
	"sync"

	"github.com/Meesho/BharatMLStack/sonar/pkg/httpframework"
	"github.com/gin-gonic/gin"
)

//go:embed console.html
var consoleHTML []byte

var initConsoleRouterOnce sync.Once

// Init registers the console page at / and /console.
func Init() {
	initConsoleRouterOnce.Do(func() {
		engine := httpframework.Instance()
		engine.GET("/", Page)
		engine.GET("/console", Page)
	})
}

func Page(ctx *gin.Context) {
	ctx.Data(200, "text/html; charset=utf-8", consoleHTML)
}
