// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zukapustikova/ai-governance-transparency-ledger/auth"
	"github.com/zukapustikova/ai-governance-transparency-ledger/controller"
	"github.com/zukapustikova/ai-governance-transparency-ledger/middleware"
)

// SetupRouter wires every controller onto a gin engine. Routes are
// mounted at the root; only the endpoints that mutate governance state
// carry authentication.
func SetupRouter(
	controllers *controller.Controllers,
	store *auth.Store,
	registerLimiter *auth.RateLimiter,
	registerLimit int,
	registerWindow time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	authn := middleware.Authenticate(store)
	registerGuard := middleware.RateLimiter(registerLimiter, registerLimit, registerWindow)

	api := router.Group("")

	controllers.Ledger.RegisterRoutes(api)
	controllers.Transparency.RegisterRoutes(api, authn)
	controllers.Compliance.RegisterRoutes(api, authn)
	controllers.ZK.RegisterRoutes(api)
	controllers.Auth.RegisterRoutes(api, registerGuard, authn)
	controllers.Mirror.RegisterRoutes(api)

	return router
}
