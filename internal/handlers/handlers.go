package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"polibest/api/internal/config"
	"polibest/api/internal/identity"
	"polibest/api/internal/middleware"
	"polibest/api/internal/repository"
	"polibest/api/internal/service"
	"polibest/api/internal/storage"
)

type HandlerSet struct {
	log                zerolog.Logger
	cfg                *config.AppConfig
	authService        *service.AuthService
	proposalService    *service.ProposalService
	statsService       *service.StatsService
	instructionService *service.InstructionService
	db                 *pgxpool.Pool
	cache              *redis.Client
	products           *repository.ProductRepository
	calculations       *repository.CalculationRepository
	documents          *repository.DocumentRepository
	proposals          *repository.ProposalRepository
	settings           *repository.SettingsRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	productRepo := repository.NewProductRepository(db)
	calculationRepo := repository.NewCalculationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	instructionRepo := repository.NewInstructionRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	provider := identity.NewClient(cfg.Auth)
	auth := service.NewAuthService(provider, userRepo, sessionRepo, cfg.Auth, log)
	proposals := service.NewProposalService(proposalRepo, log)
	stats := service.NewStatsService(productRepo, calculationRepo, documentRepo, cache, log)
	instructions := service.NewInstructionService(instructionRepo, store, log)

	return HandlerSet{
		log:                log,
		cfg:                cfg,
		authService:        auth,
		proposalService:    proposals,
		statsService:       stats,
		instructionService: instructions,
		db:                 db,
		cache:              cache,
		products:           productRepo,
		calculations:       calculationRepo,
		documents:          documentRepo,
		proposals:          proposalRepo,
		settings:           settingsRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/", h.Root)
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/session", h.CreateSession)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", middleware.Auth(h.authService), h.Me)

	protected := router.Group("")
	protected.Use(middleware.Auth(h.authService))
	{
		protected.GET("/products", h.ListProducts)
		protected.POST("/products", h.CreateProduct)
		protected.PUT("/products/:id", h.UpdateProduct)
		protected.DELETE("/products/:id", h.DeleteProduct)

		protected.GET("/calculations", h.ListCalculations)
		protected.POST("/calculations", h.CreateCalculation)
		protected.GET("/calculations/:id", h.GetCalculation)
		protected.PATCH("/calculations/:id", h.PatchCalculation)
		protected.PATCH("/calculations/:id/toggle-total", h.ToggleCalculationTotal)
		protected.DELETE("/calculations/:id", h.DeleteCalculation)

		protected.GET("/documents", h.ListDocuments)
		protected.POST("/documents", h.CreateDocument)
		protected.DELETE("/documents/:id", h.DeleteDocument)
		protected.GET("/documents/:id/file", h.DocumentFile)

		protected.GET("/instructions", h.ListInstructions)
		protected.POST("/instructions", h.CreateInstruction)
		protected.PUT("/instructions/:id", h.UpdateInstruction)
		protected.DELETE("/instructions/:id", h.DeleteInstruction)
		protected.GET("/instructions/:id/file", h.InstructionFile)

		protected.GET("/settings", h.GetSettings)
		protected.PUT("/settings", h.UpdateSettings)
		protected.GET("/calculator-prices", h.GetCalculatorPrices)
		protected.PUT("/calculator-prices", h.UpdateCalculatorPrices)

		protected.GET("/kp", h.ListProposals)
		protected.POST("/kp", h.CreateProposal)
		protected.GET("/kp/stats/funnel", h.ProposalFunnel)
		protected.GET("/kp/:id", h.GetProposal)
		protected.PUT("/kp/:id", h.UpdateProposal)
		protected.DELETE("/kp/:id", h.DeleteProposal)
		protected.PATCH("/kp/:id/status", h.UpdateProposalStatus)

		protected.GET("/stats", h.DashboardStats)
	}
}

func (h HandlerSet) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "PoliBest 911 API"})
}
