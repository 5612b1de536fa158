// Package server wires the coordination services into a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eventbuddy/backend/internal/auth"
	"github.com/eventbuddy/backend/internal/models"
	"github.com/eventbuddy/backend/internal/service"
	"github.com/eventbuddy/backend/internal/storage"
)

// Server holds the handler dependencies.
type Server struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	events        *service.EventService
	members       *service.MembershipService
	items         *service.ItemService
	debts         *service.DebtService
}

// New builds a Server on top of the given store.
func New(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	return &Server{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		events:        service.NewEventService(store),
		members:       service.NewMembershipService(store),
		items:         service.NewItemService(store),
		debts:         service.NewDebtService(store),
	}
}

// Router assembles the gin engine with middleware and all routes.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogging(), Metrics())

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "eventbuddy"})
	})
	r.GET("/metrics", metricsHandler())

	r.POST("/auth/register", s.Register)
	r.POST("/auth/login", s.Login)

	api := r.Group("/")
	api.Use(RequireAuth(s.jwtManager))
	{
		api.POST("/events", s.CreateEvent)
		api.GET("/events", s.ListEvents)

		event := api.Group("/events/:eventID")
		{
			event.GET("", s.GetEvent)
			event.PATCH("", s.PatchEvent)
			event.DELETE("", s.DeleteEvent)
			event.POST("/complete", s.CompleteEvent)

			event.POST("/join", s.RequestJoin)
			event.POST("/members", s.AddMembers)
			event.POST("/members/:login/admit", s.AdmitMember)
			event.POST("/members/:login/role", s.ToggleMemberRole)
			event.DELETE("/members/:login", s.RemoveMember)

			s.itemRoutes(event.Group("/purchases"), models.KindPurchase)
			s.itemRoutes(event.Group("/stuffs"), models.KindStuff)
			s.itemRoutes(event.Group("/tasks"), models.KindTask)

			event.POST("/tasks/:itemID/start", s.StartTask)
			event.POST("/tasks/:itemID/complete", s.CompleteTask)
			event.POST("/purchases/:itemID/cost", s.SetPurchaseCost)
			event.POST("/purchases/:itemID/receipts", s.AddReceipt)
			event.POST("/purchases/:itemID/allocations", s.AllocatePurchase)

			event.POST("/finalize", s.FinalizeAllocation)
			event.GET("/debts", s.ListDebts)
		}

		api.POST("/debts/:debtID/paid", s.MarkDebtPaid)
		api.POST("/debts/:debtID/received", s.MarkDebtReceived)
	}

	return r
}

// itemRoutes registers the operations shared by all three item kinds.
func (s *Server) itemRoutes(g *gin.RouterGroup, kind models.ItemKind) {
	g.GET("", s.ListItems(kind))
	g.POST("", s.CreateItem(kind))
	g.PATCH("/:itemID", s.PatchItem)
	g.DELETE("/:itemID", s.DeleteItem)
	g.POST("/:itemID/claim", s.ClaimItem)
	g.POST("/:itemID/release", s.ReleaseItem)
}
