package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"finance-ledger-backend/internal/config"
	handler "finance-ledger-backend/internal/handlers"
	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/repository"
	"finance-ledger-backend/internal/services/importer"
	"finance-ledger-backend/internal/storage"
)

func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *gorm.DB, store storage.Store, log zerolog.Logger) {
	batchRepo := repository.NewImportBatchRepository(db)
	recordRepo := repository.NewLedgerRecordRepository(db)

	importService := importer.NewService(
		db,
		batchRepo,
		recordRepo,
		store,
		log,
		cfg.MaxUploadBytes,
	)

	importHandler := handler.NewImportHandler(importService, cfg.IsProduction())
	healthHandler := handler.NewHealthHandler(db)

	api := r.Group("/api")

	// Health check
	api.GET("/health", healthHandler.Check)

	// Import pipeline
	imports := api.Group("/import")
	imports.POST("/upload", importHandler.Upload)
	imports.GET("/history", importHandler.History)
	imports.GET("/history/:id", importHandler.Detail)
	imports.DELETE("/history/:id", importHandler.Delete)

	// Reference dictionaries
	dicts := api.Group("/dictionaries")
	{
		registerDictionary[models.Department](dicts, "/departments", db, cfg.IsProduction())
		registerDictionary[models.Group](dicts, "/groups", db, cfg.IsProduction())
		registerDictionary[models.ServiceType](dicts, "/service-types", db, cfg.IsProduction())
		registerDictionary[models.Contractor](dicts, "/contractors", db, cfg.IsProduction())
		registerDictionary[models.CostCategory](dicts, "/cost-categories", db, cfg.IsProduction())
	}
}

func registerDictionary[T any, PT interface {
	*T
	models.Dictionary
}](g *gin.RouterGroup, path string, db *gorm.DB, production bool) {
	h := handler.NewDictionaryHandler[T, PT](repository.NewDictionaryRepository[T](db), production)

	group := g.Group(path)
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
