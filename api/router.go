package api

import (
	"net/http"
	"time"

	_ "github.com/Domenick1991/slotbooking/docs"
	"github.com/Domenick1991/slotbooking/internal/invoice"
	"github.com/Domenick1991/slotbooking/internal/service/reservation"
	"github.com/Domenick1991/slotbooking/internal/service/slots"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterDeps struct {
	Reservations   reservation.ReservationUseCase
	Slots          slots.SlotUseCase
	Invoices       invoice.Renderer
	Verifier       *TokenVerifier
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), Logger(), Timeout(deps.RequestTimeout))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	authenticated := Authenticate(deps.Verifier)

	NewSlotHandler(deps.Slots).Register(
		engine.Group("/slots"),
		engine.Group("/slots", authenticated, RequireAdmin()),
	)
	NewReservationHandler(deps.Reservations, deps.Invoices).Register(
		engine.Group("/reservations", authenticated),
	)
	return engine
}
